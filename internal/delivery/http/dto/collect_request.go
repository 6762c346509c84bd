package dto

type CollectRequest struct {
	Sources      []string `json:"sources" validate:"omitempty,max=2,dive,required"`
	Keywords     []string `json:"keywords" validate:"required,min=1,max=20,dive,required"`
	Location     string   `json:"location"`
	ContractType string   `json:"contract_type"`
	MaxResults   int      `json:"max_results" validate:"omitempty,min=1,max=3000"`
	MaxPages     int      `json:"max_pages" validate:"omitempty,min=1,max=50"`
	Locations    []string `json:"locations"`
	Contracts    []string `json:"contracts" validate:"omitempty,dive,oneof=INTERN TEMPORAIN FULL_TIME OTHER"`
	MinYears     *int     `json:"min_years" validate:"omitempty,min=0,max=50"`
	MaxYears     *int     `json:"max_years" validate:"omitempty,min=0,max=50"`
}
