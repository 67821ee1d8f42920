package petopiaserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	pethttpmapper "github.com/petopia/petopia-server/internal/domains/pets/adapters/http/mapper"
	petstypes "github.com/petopia/petopia-server/internal/domains/pets/application/types"
	petsdomain "github.com/petopia/petopia-server/internal/domains/pets/domain"
	petsports "github.com/petopia/petopia-server/internal/domains/pets/ports"
)

// PetAPI wires HTTP transport with the pets bounded context service.
type PetAPI struct {
	service petsports.Service
}

// NewPetAPI creates a PetAPI backed by the provided service.
func NewPetAPI(service petsports.Service) PetAPI {
	return PetAPI{service: service}
}

// Post /api/pets
// Register a pet; pets without an owner are listed for adoption
func (api *PetAPI) AddPet(c *gin.Context) {
	var payload pethttpmapper.PetRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	pet, err := api.service.AddPet(c.Request.Context(), pethttpmapper.ToAddPetInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pethttpmapper.FromDomainPet(pet))
}

// Get /api/pets
// Finds pets, optionally by ?status=
func (api *PetAPI) ListPets(c *gin.Context) {
	pets, err := api.service.ListPets(c.Request.Context(), petstypes.ListPetsInput{Status: c.Query("status")})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromDomainPets(pets))
}

// Get /api/pets/:petId
// Find pet by ID
func (api *PetAPI) GetPet(c *gin.Context) {
	id, ok := parseIDParam(c, "petId")
	if !ok {
		return
	}
	pet, err := api.service.GetPet(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromDomainPet(pet))
}

// Post /api/adoptions
func (api *PetAPI) RequestAdoption(c *gin.Context) {
	var payload pethttpmapper.AdoptionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	adoption, err := api.service.RequestAdoption(c.Request.Context(), pethttpmapper.ToAdoptionRequestInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pethttpmapper.FromDomainAdoption(adoption))
}

// Get /api/adoptions?userId&petId&status
func (api *PetAPI) ListAdoptions(c *gin.Context) {
	userID, ok := parseOptionalIDQuery(c, "userId")
	if !ok {
		return
	}
	petID, ok := parseOptionalIDQuery(c, "petId")
	if !ok {
		return
	}
	input := petstypes.ListAdoptionsInput{UserID: userID, PetID: petID, Status: c.Query("status")}
	list, err := api.service.ListAdoptions(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromDomainAdoptions(list))
}

// Put /api/adoptions/:adoptionId/approve
func (api *PetAPI) ApproveAdoption(c *gin.Context) {
	api.decide(c, api.service.ApproveAdoption)
}

// Put /api/adoptions/:adoptionId/reject
func (api *PetAPI) RejectAdoption(c *gin.Context) {
	api.decide(c, api.service.RejectAdoption)
}

type decisionFunc func(context.Context, petstypes.AdoptionDecisionInput) (*petsdomain.Adoption, error)

func (api *PetAPI) decide(c *gin.Context, apply decisionFunc) {
	id, ok := parseIDParam(c, "adoptionId")
	if !ok {
		return
	}
	var payload pethttpmapper.DecisionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			respondBindError(c, err)
			return
		}
	}
	adoption, err := apply(c.Request.Context(), petstypes.AdoptionDecisionInput{AdoptionID: id, Note: payload.Note})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromDomainAdoption(adoption))
}
