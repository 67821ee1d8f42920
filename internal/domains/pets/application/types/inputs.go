// Package types holds the pets use-case inputs shared by the service port and adapters.
package types

// AddPetInput registers a pet. OwnerID 0 puts it up for adoption.
type AddPetInput struct {
	OwnerID  int64
	Name     string
	Species  string
	Breed    string
	AgeYears int32
}

// ListPetsInput filters by status when Status is set.
type ListPetsInput struct {
	Status string
}

// AdoptionRequestInput opens an adoption.
type AdoptionRequestInput struct {
	PetID  int64
	UserID int64
	Note   string
}

// AdoptionDecisionInput approves or rejects an adoption.
type AdoptionDecisionInput struct {
	AdoptionID int64
	Note       string
}

// ListAdoptionsInput filters adoptions; zero values match everything.
type ListAdoptionsInput struct {
	UserID int64
	PetID  int64
	Status string
}
