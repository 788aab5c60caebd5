package authz

import (
	"github.com/cedar-policy/cedar-go"

	"github.com/artograd/backend/internal/models"
)

// Principal is the caller as seen by the policies. The zero value is anonymous.
type Principal struct {
	Username string
	Role     models.UserRole
}

// Resource is the entity an action targets, with the string attributes policies read.
type Resource struct {
	Type  string
	ID    string
	Attrs map[string]string
}

// TenderResource describes a tender, including one about to be created.
func TenderResource(t *models.Tender) Resource {
	return Resource{Type: "Tender", ID: t.ID, Attrs: map[string]string{
		"owner_id": t.OwnerID,
	}}
}

// ProposalResource describes a proposal of tender t. p may be nil for creation.
func ProposalResource(t *models.Tender, p *models.Proposal) Resource {
	r := Resource{Type: "Proposal", Attrs: map[string]string{
		"owner_id":        "",
		"tender_owner_id": t.OwnerID,
	}}
	if p != nil {
		r.ID = p.ID
		r.Attrs["owner_id"] = p.OwnerID
	}
	return r
}

// ArtObjectResource describes an art object.
func ArtObjectResource(a *models.ArtObject) Resource {
	return Resource{Type: "ArtObject", ID: a.ID, Attrs: map[string]string{
		"owner_id":    a.OwnerID(),
		"supplier_id": a.SupplierID(),
	}}
}

// ProfileResource describes the profile of username.
func ProfileResource(username string) Resource {
	return Resource{Type: "Profile", ID: username, Attrs: map[string]string{
		"username": username,
	}}
}

// ContactResource describes a social media contact.
func ContactResource(c *models.SocialMediaContact) Resource {
	return Resource{Type: "Contact", ID: c.ID, Attrs: map[string]string{
		"owner_id": c.UserID,
	}}
}

// FileResource describes an upload target folder.
func FileResource(folder string) Resource {
	return Resource{Type: "File", ID: folder}
}

// CatalogueResource describes a managed catalogue such as the team or the email whitelist.
func CatalogueResource(name string) Resource {
	return Resource{Type: "Catalogue", ID: name}
}

func principalEntity(p Principal) cedar.Entity {
	role := p.Role
	if role == "" {
		role = models.RoleAnonymousOrCitizen
	}
	return cedar.Entity{
		UID:     cedar.NewEntityUID("User", cedar.String(p.Username)),
		Parents: cedar.NewEntityUIDSet(),
		Attributes: cedar.NewRecord(cedar.RecordMap{
			"username": cedar.String(p.Username),
			"role":     cedar.String(string(role)),
		}),
	}
}

func resourceEntity(r Resource) cedar.Entity {
	attrs := cedar.RecordMap{}
	for k, v := range r.Attrs {
		attrs[cedar.String(k)] = cedar.String(v)
	}
	return cedar.Entity{
		UID:        cedar.NewEntityUID(cedar.EntityType(r.Type), cedar.String(r.ID)),
		Parents:    cedar.NewEntityUIDSet(),
		Attributes: cedar.NewRecord(attrs),
	}
}
