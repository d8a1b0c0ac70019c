package domain

const (
	RoleUser  = "USER"
	RoleVet   = "VET"
	RoleAdmin = "ADMIN"
)

// Adoption lifecycle status of a listing.
const (
	PostStatusAvailable = "Available"
	PostStatusPending   = "Pending"
	PostStatusAdopted   = "Adopted"
)

// Vet review axis, independent of the adoption status.
const (
	VetStatusPending  = "pending"
	VetStatusApproved = "approved"
	VetStatusRejected = "rejected"
)

const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

const (
	NotifTypeAdoptionRequest  = "adoption_request"
	NotifTypeAdoptionApproved = "adoption_approved"
	NotifTypeAdoptionRejected = "adoption_rejected"
	NotifTypeVetApproved      = "vet_approved"
	NotifTypeVetRejected      = "vet_rejected"
	NotifTypeNewMessage       = "new_message"
)

const (
	SizeSmall  = "Small"
	SizeMedium = "Medium"
	SizeLarge  = "Large"
)
