package domain

// Status represents the payment state of a settlement.
// The only legal transition is pending → paid.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid:
		return true
	}
	return false
}

// Assignment says who a line item belongs to when splitting a bill:
// kept by the payer, owed in full by the counterpart, or shared 50:50.
type Assignment string

const (
	AssignmentSelf  Assignment = "self"
	AssignmentOther Assignment = "other"
	AssignmentSplit Assignment = "split"
)

func (a Assignment) String() string { return string(a) }

func (a Assignment) IsValid() bool {
	switch a {
	case AssignmentSelf, AssignmentOther, AssignmentSplit:
		return true
	}
	return false
}

// Normalize maps the empty assignment to the default AssignmentSplit.
func (a Assignment) Normalize() Assignment {
	if a == "" {
		return AssignmentSplit
	}
	return a
}
