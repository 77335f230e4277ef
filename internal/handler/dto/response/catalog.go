package response

import (
	"time"

	"blib-backend/internal/usecase/queries"
)

type TitleResponse struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Author       string  `json:"author"`
	Description  string  `json:"description"`
	Genre        string  `json:"genre"`
	NumOfCopies  int     `json:"num_of_copies"`
	Availability int     `json:"availability"`
	NextReturn   *string `json:"next_return,omitempty"`
}

func NewTitleResponse(v queries.TitleView) TitleResponse {
	resp := TitleResponse{
		ID:           v.ID,
		Name:         v.Name,
		Author:       v.Author,
		Description:  v.Description,
		Genre:        v.Genre,
		NumOfCopies:  v.NumOfCopies,
		Availability: v.Availability,
	}
	if v.NextReturn != nil {
		d := v.NextReturn.Format(time.DateOnly)
		resp.NextReturn = &d
	}
	return resp
}

func NewTitleResponses(views []queries.TitleView) []TitleResponse {
	resps := make([]TitleResponse, 0, len(views))
	for _, v := range views {
		resps = append(resps, NewTitleResponse(v))
	}
	return resps
}

type CopyResponse struct {
	ID       int    `json:"id"`
	TitleID  int    `json:"title_id"`
	Shelf    string `json:"shelf,omitempty"`
	Borrowed bool   `json:"borrowed"`
}

func NewCopyResponses(views []queries.CopyView) []CopyResponse {
	resps := make([]CopyResponse, 0, len(views))
	for _, v := range views {
		resps = append(resps, CopyResponse{
			ID:       v.ID,
			TitleID:  v.TitleID,
			Shelf:    v.Shelf,
			Borrowed: v.Borrowed,
		})
	}
	return resps
}
