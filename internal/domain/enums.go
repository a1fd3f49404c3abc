package domain

// ConfigKind identifies one of the versioned rate tables.
type ConfigKind string

const (
	ConfigKindCapitalInvestment ConfigKind = "capital_investment"
	ConfigKindGrossSales        ConfigKind = "gross_sales"
	ConfigKindRegulatoryFee     ConfigKind = "regulatory_fee"
	ConfigKindDiscount          ConfigKind = "discount"
	ConfigKindPenalty           ConfigKind = "penalty"
)

// AllConfigKinds lists every supported config kind in display order.
var AllConfigKinds = []ConfigKind{
	ConfigKindCapitalInvestment,
	ConfigKindGrossSales,
	ConfigKindRegulatoryFee,
	ConfigKindDiscount,
	ConfigKindPenalty,
}

// Valid reports whether k is a known config kind.
func (k ConfigKind) Valid() bool {
	switch k {
	case ConfigKindCapitalInvestment, ConfigKindGrossSales, ConfigKindRegulatoryFee,
		ConfigKindDiscount, ConfigKindPenalty:
		return true
	}
	return false
}

// HasPercent reports whether rows of this kind carry a percent rate.
func (k ConfigKind) HasPercent() bool {
	return k != ConfigKindRegulatoryFee
}

// TaxType selects how the taxable base of an entity is taxed.
type TaxType string

const (
	TaxTypeCapitalInvestment TaxType = "capital_investment"
	TaxTypeGrossSales        TaxType = "gross_sales"
)

// Valid reports whether t is a known tax type.
func (t TaxType) Valid() bool {
	return t == TaxTypeCapitalInvestment || t == TaxTypeGrossSales
}

// ConfigKind returns the rate table consulted for this tax type.
func (t TaxType) ConfigKind() ConfigKind {
	if t == TaxTypeGrossSales {
		return ConfigKindGrossSales
	}
	return ConfigKindCapitalInvestment
}

// RateSource records where the applied tax rate came from.
type RateSource string

const (
	RateSourceCustom  RateSource = "custom"
	RateSourceConfig  RateSource = "config"
	RateSourceDefault RateSource = "default"
)

// EntityType distinguishes the two taxable registrations.
type EntityType string

const (
	EntityTypeBusinessPermit EntityType = "business_permit"
	EntityTypeProperty       EntityType = "property"
)

// Valid reports whether t is a known entity type.
func (t EntityType) Valid() bool {
	return t == EntityTypeBusinessPermit || t == EntityTypeProperty
}

// EntityStatus is the registration lifecycle of a taxable entity.
type EntityStatus string

const (
	EntityStatusPending  EntityStatus = "pending"
	EntityStatusApproved EntityStatus = "approved"
	EntityStatusActive   EntityStatus = "active"
	EntityStatusRejected EntityStatus = "rejected"
)

// Valid reports whether s is a known entity status.
func (s EntityStatus) Valid() bool {
	switch s {
	case EntityStatusPending, EntityStatusApproved, EntityStatusActive, EntityStatusRejected:
		return true
	}
	return false
}

// Approvable reports whether an entity in status s may be (re)approved.
// Approved entities may be recalculated until billing exists.
func (s EntityStatus) Approvable() bool {
	return s == EntityStatusPending || s == EntityStatusApproved
}

// Billable reports whether quarterly billing may be generated for the entity.
func (s EntityStatus) Billable() bool {
	return s == EntityStatusApproved || s == EntityStatusActive
}

// PaymentStatus is the lifecycle of a quarterly installment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

// CanTransitionTo reports whether an installment may move from s to next.
// Paid is terminal; overdue never returns to pending.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return next == PaymentStatusPaid || next == PaymentStatusOverdue
	case PaymentStatusOverdue:
		return next == PaymentStatusPaid || next == PaymentStatusOverdue
	}
	return false
}
