package dto

type LikesParams struct {
	Page      int    `query:"pageNumber"`
	PageSize  int    `query:"pageSize"`
	Predicate string `query:"predicate"`
}
