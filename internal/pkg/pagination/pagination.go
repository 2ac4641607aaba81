package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Params represents pagination parameters. A zero Limit means the
// caller did not ask for pagination and the full set is returned.
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// MaxLimit is the maximum number of items per page
const MaxLimit = 100

// GetParams extracts optional pagination parameters from the request.
// When no limit is passed the listing contract is unchanged: everything
// comes back in one response.
func GetParams(c *fiber.Ctx) *Params {
	rawLimit := c.Query("limit")
	if rawLimit == "" {
		return &Params{Page: 1}
	}

	limit, _ := strconv.Atoi(rawLimit)
	if limit < 1 {
		return &Params{Page: 1}
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	return &Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
