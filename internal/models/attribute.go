package models

import "strings"

// AttributeKey enumerates the profile attributes the platform understands.
// Anything else parses to AttrUnrecognized.
type AttributeKey int

const (
	AttrUnrecognized AttributeKey = iota
	AttrFacebook
	AttrInstagram
	AttrLinkedIn
	AttrLocation
	AttrWebsite
	AttrOrganization
	AttrJobTitle
	AttrGivenName
	AttrFamilyName
	AttrPicture
	AttrUsername
	AttrLang
	AttrGroups
	AttrEmail
	AttrEmailVerified
	AttrShowEmail
	AttrBankAccount
	AttrBankBenefitBank
	AttrBankBenefitName
	AttrBankIBAN
	AttrBankSWIFT
	AttrBankUseDefault
	AttrPhoneNumber
	AttrPhoneNumberVerified
	AttrSub
)

var attributeNames = map[AttributeKey]string{
	AttrFacebook:            "custom:facebook",
	AttrInstagram:           "custom:instagram",
	AttrLinkedIn:            "custom:linkedin",
	AttrLocation:            "custom:location",
	AttrWebsite:             "website",
	AttrOrganization:        "custom:organization",
	AttrJobTitle:            "custom:jobtitle",
	AttrGivenName:           "given_name",
	AttrFamilyName:          "family_name",
	AttrPicture:             "picture",
	AttrUsername:            "cognito:username",
	AttrLang:                "custom:lang_iso2",
	AttrGroups:              "cognito:groups",
	AttrEmail:               "email",
	AttrEmailVerified:       "email_verified",
	AttrShowEmail:           "custom:show_email",
	AttrBankAccount:         "custom:bank_account",
	AttrBankBenefitBank:     "custom:bank_benefit_bank",
	AttrBankBenefitName:     "custom:bank_benefit_name",
	AttrBankIBAN:            "custom:bank_iban",
	AttrBankSWIFT:           "custom:bank_swift",
	AttrBankUseDefault:      "custom:bank_use_default",
	AttrPhoneNumber:         "phone_number",
	AttrPhoneNumberVerified: "phone_number_verified",
	AttrSub:                 "sub",
}

var attributeKeys = func() map[string]AttributeKey {
	m := make(map[string]AttributeKey, len(attributeNames))
	for k, name := range attributeNames {
		m[name] = k
	}
	return m
}()

// ParseAttributeKey maps an attribute name, case-insensitively, to its key.
func ParseAttributeKey(name string) AttributeKey {
	if k, ok := attributeKeys[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k
	}
	return AttrUnrecognized
}

// String returns the identity provider name of the key.
func (k AttributeKey) String() string {
	if name, ok := attributeNames[k]; ok {
		return name
	}
	return "unrecognized"
}

// IsBankDetail reports whether k is one of the bank_* attributes.
func (k AttributeKey) IsBankDetail() bool {
	switch k {
	case AttrBankAccount, AttrBankBenefitBank, AttrBankBenefitName, AttrBankIBAN, AttrBankSWIFT, AttrBankUseDefault:
		return true
	}
	return false
}

// IsReadOnly reports whether users may not change k themselves.
func (k AttributeKey) IsReadOnly() bool {
	switch k {
	case AttrUsername, AttrGroups, AttrSub, AttrEmailVerified, AttrPhoneNumberVerified:
		return true
	}
	return false
}
