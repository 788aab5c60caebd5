package authz

import "github.com/artograd/backend/internal/models"

// attributeVisible decides whether a single recognized attribute may be shown.
//
//	always:      social links, location, organization, job title, names, picture, username
//	owner only:  language, groups, email, show_email, bank details, phone number
//	cross-role:  email and phone number of artists and officials, to officials
func attributeVisible(key models.AttributeKey, requester models.UserRole, isOwner bool, profile models.UserRole) bool {
	switch key {
	case models.AttrFacebook, models.AttrInstagram, models.AttrLinkedIn, models.AttrLocation,
		models.AttrOrganization, models.AttrJobTitle, models.AttrGivenName, models.AttrFamilyName,
		models.AttrPicture, models.AttrUsername:
		return true
	case models.AttrEmail, models.AttrPhoneNumber:
		if isOwner {
			return true
		}
		return requester == models.RoleOfficial &&
			(profile == models.RoleArtist || profile == models.RoleOfficial)
	case models.AttrLang, models.AttrGroups, models.AttrShowEmail:
		return isOwner
	case models.AttrUnrecognized:
		return false
	}
	if key.IsBankDetail() {
		return isOwner
	}
	return false
}

// FilterAttributes returns the attributes of a profile the requester may see.
// Unrecognized attribute names are never returned.
func FilterAttributes(attrs []models.UserAttribute, requester models.UserRole, isOwner bool, profile models.UserRole) []models.UserAttribute {
	out := make([]models.UserAttribute, 0, len(attrs))
	for _, a := range attrs {
		if attributeVisible(models.ParseAttributeKey(a.Name), requester, isOwner, profile) {
			out = append(out, a)
		}
	}
	return out
}
