package models

import (
	"strings"
)

// UserRole is derived from the identity provider group a user belongs to.
type UserRole string

const (
	RoleAnonymousOrCitizen UserRole = "AnonymousOrCitizen"
	RoleArtist             UserRole = "Artists"
	RoleOfficial           UserRole = "Officials"
)

// ParseUserRole matches a group name case-insensitively. Unknown or empty
// names resolve to RoleAnonymousOrCitizen.
func ParseUserRole(group string) UserRole {
	g := strings.TrimSpace(group)
	for _, r := range []UserRole{RoleArtist, RoleOfficial, RoleAnonymousOrCitizen} {
		if strings.EqualFold(g, string(r)) {
			return r
		}
	}
	return RoleAnonymousOrCitizen
}

// UserAttribute is one (name, value) pair of an identity provider profile.
type UserAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// User is a read-through view of an identity provider account.
type User struct {
	Username   string          `json:"username"`
	Attributes []UserAttribute `json:"attributes"`
}

// Attribute returns the value of the first attribute recognized as key.
func (u *User) Attribute(key AttributeKey) (string, bool) {
	for _, a := range u.Attributes {
		if ParseAttributeKey(a.Name) == key {
			return a.Value, true
		}
	}
	return "", false
}

// Role derives the user's role from the groups attribute.
func (u *User) Role() UserRole {
	groups, ok := u.Attribute(AttrGroups)
	if !ok {
		return RoleAnonymousOrCitizen
	}
	return ParseUserRole(groups)
}

// DisplayInfo projects the profile onto the fields copied into tenders,
// proposals and art objects.
func (u *User) DisplayInfo() UserInfo {
	given, _ := u.Attribute(AttrGivenName)
	family, _ := u.Attribute(AttrFamilyName)
	picture, _ := u.Attribute(AttrPicture)
	org, _ := u.Attribute(AttrOrganization)
	return UserInfo{
		ID:           u.Username,
		Name:         strings.TrimSpace(given + " " + family),
		Picture:      picture,
		Organization: org,
	}
}

// UserInfo is the denormalized display projection of a user.
type UserInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	Picture      string `json:"picture,omitempty"`
	Organization string `json:"organization,omitempty"`
}
