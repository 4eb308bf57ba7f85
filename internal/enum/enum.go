package enum

// ── State machines (CHECK constrained in DB) ──

const (
	OrderStatusOpen          = "OPEN"
	OrderStatusSentToKitchen = "SENT_TO_KITCHEN"
	OrderStatusCompleted     = "COMPLETED"
)

const (
	CheckStatusOpen   = "OPEN"
	CheckStatusMerged = "MERGED"
	CheckStatusPaid   = "PAID"
)

const (
	TableStatusAvailable = "AVAILABLE"
	TableStatusOccupied  = "OCCUPIED"
)

// Item status codes are part of the stable contract consumed by waiter
// devices and kitchen printers. Do not renumber.
const (
	ItemStatusHold int16 = 0 // entered, intentionally not sent to kitchen
	ItemStatusFire int16 = 1 // sent/active in the kitchen workflow
	ItemStatusTemp int16 = 2 // draft, never billed, freely deletable
	ItemStatusVoid int16 = 3 // cancelled after firing, reversible
)

const (
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusCancelled = "CANCELLED"
	PaymentStatusRefunded  = "REFUNDED"
)

// ── Billing configuration ──

const (
	GratuityKeyAuto          = "AUTO"
	GratuityKeyManual        = "MANUAL"
	GratuityKeyNotApplicable = "NOT_APPLICABLE"
)

const (
	GratuityTypePercentage = "PERCENTAGE"
	GratuityTypeFixedMoney = "FIXED_MONEY"
)

const (
	DiscountTypePercentage = "PERCENTAGE"
	DiscountTypeFixed      = "FIXED_AMOUNT"
)

const (
	TipTypePercentage = "PERCENTAGE"
	TipTypeFixed      = "FIXED_AMOUNT"
)

// ── Configurable labels (no DB constraint) ──

const (
	PaymentModeCash   = "CASH"
	PaymentModeCard   = "CARD"
	PaymentModeOnline = "ONLINE"
)

const (
	EmployeeRoleOwner   = "OWNER"
	EmployeeRoleManager = "MANAGER"
	EmployeeRoleWaiter  = "WAITER"
	EmployeeRoleKitchen = "KITCHEN"
)

// ── Client action verbs (wire contract, lowercase) ──

const (
	VoidActionVoid    = "void"
	VoidActionUndo    = "undo"
	VoidActionUndoAll = "undo_all"
)

const (
	DiscountActionApply     = "apply"
	DiscountActionEdit      = "edit"
	DiscountActionRemove    = "remove"
	DiscountActionRemoveAll = "remove_all"
)
