/*
dto.go - Data Transfer Objects for API requests and responses

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Catalog: StoreDTO, ProductDTO
  Runs:    RunDTO, RunDetailResponse, CreateRunRequest

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.
*/
package api

import (
	"time"

	"github.com/warp/retail-datagen/catalog"
	"github.com/warp/retail-datagen/generator"
	"github.com/warp/retail-datagen/store/sqlite"
)

// =============================================================================
// CATALOG
// =============================================================================

// StoreDTO represents a store in API responses.
type StoreDTO struct {
	ID          string  `json:"id"`
	Location    string  `json:"location"`
	Size        string  `json:"size"`
	SizeFactor  float64 `json:"size_factor"`
	BaseTraffic int     `json:"base_traffic"`
}

// ProductDTO represents a product in API responses.
type ProductDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Margin      float64 `json:"margin"`
	Seasonality string  `json:"seasonality"`
}

func toStoreDTO(s catalog.Store) StoreDTO {
	return StoreDTO{
		ID:          s.ID,
		Location:    s.Location,
		Size:        string(s.Size),
		SizeFactor:  s.Size.Factor(),
		BaseTraffic: s.BaseTraffic,
	}
}

func toProductDTO(p catalog.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Margin:      p.Margin,
		Seasonality: string(p.Seasonality),
	}
}

// =============================================================================
// RUNS
// =============================================================================

// CreateRunRequest is the body of POST /api/runs. A nil or zero seed draws a
// random one; the seed actually used is returned in the manifest.
type CreateRunRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Seed      *int64 `json:"seed,omitempty"`
}

// RunDTO is one entry of the run catalog.
type RunDTO struct {
	ID          string                        `json:"id"`
	Seed        int64                         `json:"seed"`
	StartDate   string                        `json:"start_date"`
	EndDate     string                        `json:"end_date"`
	OutputRoot  string                        `json:"output_root"`
	Status      string                        `json:"status"`
	Error       string                        `json:"error,omitempty"`
	Metadata    *generator.GenerationMetadata `json:"metadata,omitempty"`
	StartedAt   time.Time                     `json:"started_at"`
	CompletedAt *time.Time                    `json:"completed_at,omitempty"`
}

// RunDetailResponse is a run with its file listing.
type RunDetailResponse struct {
	Run   RunDTO                       `json:"run"`
	Files map[generator.Table][]string `json:"files"`
}

func toRunDTO(r sqlite.Run) RunDTO {
	return RunDTO{
		ID:          r.ID,
		Seed:        r.Seed,
		StartDate:   r.StartDate.String(),
		EndDate:     r.EndDate.String(),
		OutputRoot:  r.OutputRoot,
		Status:      string(r.Status),
		Error:       r.Error,
		Metadata:    r.Metadata,
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
	}
}

// =============================================================================
// COMMON
// =============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status   string `json:"status"`
	Stores   int    `json:"stores"`
	Products int    `json:"products"`
}
