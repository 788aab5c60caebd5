package models

import (
	"strings"
	"time"
)

// ArtObjectStatusNew is the status of a freshly converted art object.
const ArtObjectStatusNew = "NEW"

// TenderRef points back at the tender an art object came from.
type TenderRef struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

// BudgetInfo tracks the estimate and fundraising of an art object.
type BudgetInfo struct {
	InitialEstimate     float64 `json:"initialEstimate"`
	CurrentEstimate     float64 `json:"currentEstimate"`
	FundraisingTarget   float64 `json:"fundraisingTarget"`
	FundraisingGathered float64 `json:"fundraisingGathered"`
}

// PaymentInfo holds the bank details donations are paid to. Articul is the
// generated payment reference.
type PaymentInfo struct {
	Articul         string `json:"articul"`
	BeneficiaryName string `json:"beneficiaryName,omitempty"`
	BeneficiaryBank string `json:"beneficiaryBank,omitempty"`
	AccountNumber   string `json:"accountNumber,omitempty"`
	IBAN            string `json:"iban,omitempty"`
	SWIFT           string `json:"swift,omitempty"`
}

// ArtObject is the artwork realized from a tender's winning proposal.
type ArtObject struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	Files          []FileInfo   `json:"files,omitempty"`
	Cover          *FileInfo    `json:"cover,omitempty"`
	Tender         *TenderRef   `json:"tender,omitempty"`
	ProposalID     string       `json:"proposalId,omitempty"`
	Budget         *BudgetInfo  `json:"budget,omitempty"`
	Status         string       `json:"status"`
	Category       []string     `json:"category,omitempty"`
	Location       *Location    `json:"location,omitempty"`
	LocationLeafID string       `json:"locationLeafId,omitempty"`
	DeliveryDate   *time.Time   `json:"deliveryDate,omitempty"`
	Owner          *UserInfo    `json:"owner,omitempty"`
	Supplier       *UserInfo    `json:"supplier,omitempty"`
	Payment        *PaymentInfo `json:"payment,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
	ModifiedAt     time.Time    `json:"modifiedAt"`

	Version int64 `json:"-"`
}

// OwnerID returns the owner's username, or "".
func (a *ArtObject) OwnerID() string {
	if a.Owner == nil {
		return ""
	}
	return a.Owner.ID
}

// SupplierID returns the supplier's username, or "".
func (a *ArtObject) SupplierID() string {
	if a.Supplier == nil {
		return ""
	}
	return a.Supplier.ID
}

// ArtObjectPatch carries the fields of a partial update; nil fields are left alone.
type ArtObjectPatch struct {
	Title          *string      `json:"title"`
	Description    *string      `json:"description"`
	Files          []FileInfo   `json:"files"`
	Cover          *FileInfo    `json:"cover"`
	Budget         *BudgetInfo  `json:"budget"`
	Status         *string      `json:"status"`
	Category       []string     `json:"category"`
	Location       *Location    `json:"location"`
	LocationLeafID *string      `json:"locationLeafId"`
	DeliveryDate   *time.Time   `json:"deliveryDate"`
	Payment        *PaymentInfo `json:"payment"`
}

// Apply copies every non-nil field onto a. The articul is never replaced.
func (p *ArtObjectPatch) Apply(a *ArtObject) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Files != nil {
		a.Files = p.Files
	}
	if p.Cover != nil {
		a.Cover = p.Cover
	}
	if p.Budget != nil {
		a.Budget = p.Budget
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Category != nil {
		a.Category = p.Category
	}
	if p.Location != nil {
		a.Location = p.Location
	}
	if p.LocationLeafID != nil {
		a.LocationLeafID = *p.LocationLeafID
	}
	if p.DeliveryDate != nil {
		a.DeliveryDate = p.DeliveryDate
	}
	if p.Payment != nil {
		articul := ""
		if a.Payment != nil {
			articul = a.Payment.Articul
		}
		payment := *p.Payment
		payment.Articul = articul
		a.Payment = &payment
	}
}

// ArtObjectSearchCriteria filters GET /artobjects/search. UserID matches owner or supplier.
type ArtObjectSearchCriteria struct {
	Title           string   `form:"title"`
	LocationLeafIDs []string `form:"locationLeafIds"`
	Statuses        []string `form:"statuses"`
	UserID          string   `form:"userId"`
	Paging
}

// Normalize applies paging defaults and splits list values.
func (c *ArtObjectSearchCriteria) Normalize() {
	c.Title = strings.TrimSpace(c.Title)
	c.LocationLeafIDs = splitList(c.LocationLeafIDs)
	c.Statuses = upperAll(splitList(c.Statuses))
	c.Paging.Normalize()
}
