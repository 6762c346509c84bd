package dto

// Query DTOs are bound from the URL. Zero numeric values mean "use the
// default".

type SourceQuery struct {
	Source string `query:"source" validate:"required"`
}

type GeographyQuery struct {
	Source string `query:"source"`
	TopN   int    `query:"top_n" validate:"omitempty,min=1,max=100"`
}

type RelatedTitlesQuery struct {
	Query         string  `query:"q" validate:"required"`
	TopN          int     `query:"top_n" validate:"omitempty,min=1,max=100"`
	MinSimilarity float64 `query:"min_similarity" validate:"omitempty,gt=0,max=1"`
}

type OfferListQuery struct {
	Source string `query:"source"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}
