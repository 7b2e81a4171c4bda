package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-booking/internal/service"
)

// RestaurantHandler serves the restaurant directory, search, reviews and
// the availability endpoint of the restaurant service.
type RestaurantHandler struct {
	Restaurants  *service.RestaurantService
	Reviews      *service.ReviewService
	Availability *service.AvailabilityChecker
}

// NewRestaurantHandler panics on a nil dependency.
func NewRestaurantHandler(rs *service.RestaurantService, rv *service.ReviewService, ac *service.AvailabilityChecker) *RestaurantHandler {
	if rs == nil || rv == nil || ac == nil {
		panic("nil service passed to NewRestaurantHandler")
	}
	return &RestaurantHandler{Restaurants: rs, Reviews: rv, Availability: ac}
}

// List handles GET /api/restaurants.
func (h *RestaurantHandler) List(c echo.Context) error {
	rs, err := h.Restaurants.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toRestaurantDTOs(rs))
}

// Get handles GET /api/restaurants/:id.
func (h *RestaurantHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid restaurant id")
	}
	r, err := h.Restaurants.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toRestaurantDTO(*r))
}

// Exists handles GET /api/restaurants/:id/exists.  An unknown id answers
// 200 with exists=false.
func (h *RestaurantHandler) Exists(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid restaurant id")
	}
	exists, err := h.Restaurants.Exists(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"exists": exists})
}

func (req RestaurantRequest) input() (service.RestaurantInput, bool) {
	if req.Latitude == nil || req.Longitude == nil {
		return service.RestaurantInput{}, false
	}
	return service.RestaurantInput{
		Name:          req.Name,
		Address:       req.Address,
		Latitude:      *req.Latitude,
		Longitude:     *req.Longitude,
		CuisineType:   req.CuisineType,
		Description:   req.Description,
		OpenTime:      req.OpenTime,
		CloseTime:     req.CloseTime,
		AveragePrice:  req.AveragePrice,
		TotalCapacity: req.TotalCapacity,
	}, true
}

// Create handles POST /api/restaurants.
func (h *RestaurantHandler) Create(c echo.Context) error {
	var req RestaurantRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	in, ok := req.input()
	if !ok {
		return badRequest(c, "latitude and longitude are required")
	}
	r, err := h.Restaurants.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toRestaurantDTO(*r))
}

// Update handles PUT /api/restaurants/:id.
func (h *RestaurantHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid restaurant id")
	}
	var req RestaurantRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	in, ok := req.input()
	if !ok {
		return badRequest(c, "latitude and longitude are required")
	}
	r, err := h.Restaurants.Update(c.Request().Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toRestaurantDTO(*r))
}

// Delete handles DELETE /api/restaurants/:id.
func (h *RestaurantHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid restaurant id")
	}
	if err := h.Restaurants.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *RestaurantHandler) writeSearch(c echo.Context, q service.SearchQuery) error {
	res, err := h.Restaurants.Search(c.Request().Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": hitDTOs(res.Hits),
		"total": res.Total,
		"page":  max(q.Page, 1),
	})
}

// SearchPost handles POST /api/restaurants/search with a JSON query.
func (h *RestaurantHandler) SearchPost(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	return h.writeSearch(c, req.query())
}

// Search handles GET /api/restaurants/search with query parameters named
// like the JSON body of SearchPost.
func (h *RestaurantHandler) Search(c echo.Context) error {
	q := service.SearchQuery{
		Name:        c.QueryParam("name"),
		CuisineType: c.QueryParam("cuisine_type"),
		Sort:        c.QueryParam("sort"),
	}
	var err error
	floats := []struct {
		name string
		dst  **float64
	}{
		{"min_rating", &q.MinRating}, {"min_price", &q.MinPrice}, {"max_price", &q.MaxPrice},
		{"latitude", &q.Latitude}, {"longitude", &q.Longitude}, {"radius_km", &q.RadiusKm},
	}
	for _, f := range floats {
		if *f.dst, err = queryFloat(c, f.name); err != nil {
			return badRequest(c, err.Error())
		}
	}
	if q.MinCapacity, err = queryInt(c, "min_capacity"); err != nil {
		return badRequest(c, err.Error())
	}
	if q.MaxCapacity, err = queryInt(c, "max_capacity"); err != nil {
		return badRequest(c, err.Error())
	}
	if s := c.QueryParam("open_now"); s != "" {
		if q.OpenNow, err = strconv.ParseBool(s); err != nil {
			return badRequest(c, "query parameter open_now must be a boolean")
		}
	}
	page, err := queryInt(c, "page")
	if err != nil {
		return badRequest(c, err.Error())
	}
	size, err := queryInt(c, "page_size")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if page != nil {
		q.Page = *page
	}
	if size != nil {
		if *size < 0 {
			return badRequest(c, "page_size must not be negative")
		}
		q.PageSize = *size
	}
	return h.writeSearch(c, q)
}

// SearchByName handles GET /api/restaurants/search/name/:name.
func (h *RestaurantHandler) SearchByName(c echo.Context) error {
	rs, err := h.Restaurants.SearchByName(c.Request().Context(), c.Param("name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toRestaurantDTOs(rs))
}

// ByCuisine handles GET /api/restaurants/cuisine/:type.
func (h *RestaurantHandler) ByCuisine(c echo.Context) error {
	rs, err := h.Restaurants.ByCuisine(c.Request().Context(), c.Param("type"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toRestaurantDTOs(rs))
}

// TopRated handles GET /api/restaurants/top-rated.
func (h *RestaurantHandler) TopRated(c echo.Context) error {
	rs, err := h.Restaurants.TopRated(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toRestaurantDTOs(rs))
}

// Cuisines handles GET /api/restaurants/cuisines.
func (h *RestaurantHandler) Cuisines(c echo.Context) error {
	cs, err := h.Restaurants.Cuisines(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	if cs == nil {
		cs = []string{}
	}
	return c.JSON(http.StatusOK, cs)
}

// Popular handles GET /api/restaurants/popular?limit=N.
func (h *RestaurantHandler) Popular(c echo.Context) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return badRequest(c, err.Error())
	}
	n := 0
	if limit != nil {
		n = *limit
	}
	rs, err := h.Restaurants.Popular(c.Request().Context(), n)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toRestaurantDTOs(rs))
}

// Nearby handles GET /api/restaurants/nearby?lat=&lon=&radius=.
func (h *RestaurantHandler) Nearby(c echo.Context) error {
	lat, err := queryFloat(c, "lat")
	if err != nil {
		return badRequest(c, err.Error())
	}
	lon, err := queryFloat(c, "lon")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if lat == nil || lon == nil {
		return badRequest(c, "lat and lon are required")
	}
	radius, err := queryFloat(c, "radius")
	if err != nil {
		return badRequest(c, err.Error())
	}
	r := service.DefaultNearbyRadiusKm
	if radius != nil {
		r = *radius
	}
	hits, err := h.Restaurants.Nearby(c.Request().Context(), *lat, *lon, r)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, hitDTOs(hits))
}

// Recommendations handles GET /api/restaurants/recommendations.
func (h *RestaurantHandler) Recommendations(c echo.Context) error {
	minRating, err := queryFloat(c, "min_rating")
	if err != nil {
		return badRequest(c, err.Error())
	}
	rs, err := h.Restaurants.Recommendations(c.Request().Context(), c.QueryParam("cuisine"), minRating)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toRestaurantDTOs(rs))
}

// Filters handles GET /api/restaurants/filters.
func (h *RestaurantHandler) Filters(c echo.Context) error {
	f, err := h.Restaurants.Filters(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	if f.Cuisines == nil {
		f.Cuisines = []string{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"cuisines":     f.Cuisines,
		"min_price":    f.MinPrice,
		"max_price":    f.MaxPrice,
		"min_capacity": f.MinCapacity,
		"max_capacity": f.MaxCapacity,
		"min_rating":   f.MinRating,
		"max_rating":   f.MaxRating,
	})
}

// Stats handles GET /api/restaurants/stats.
func (h *RestaurantHandler) Stats(c echo.Context) error {
	st, err := h.Restaurants.Stats(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total_restaurants": st.TotalRestaurants,
		"average_rating":    st.AverageRating,
		"by_cuisine":        st.ByCuisine,
		"open_now":          st.OpenNow,
		"total_reviews":     st.TotalReviews,
	})
}

// CheckAvailability handles
// GET /api/restaurants/:id/availability?date_time=&guests=.
func (h *RestaurantHandler) CheckAvailability(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid restaurant id")
	}
	guests, err := queryInt(c, "guests")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if guests == nil {
		return badRequest(c, "guests is required")
	}
	a, err := h.Availability.Check(c.Request().Context(), service.AvailabilityRequest{
		RestaurantID: id,
		DateTime:     c.QueryParam("date_time"),
		Guests:       *guests,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toAvailabilityDTO(a))
}

// ReviewRequest is the body of POST /api/reviews.
type ReviewRequest struct {
	RestaurantID uint64 `json:"restaurant_id"`
	Comment      string `json:"comment"`
	Score        int    `json:"score"`
	AuthorName   string `json:"author_name"`
}

// AddReview handles POST /api/reviews.
func (h *RestaurantHandler) AddReview(c echo.Context) error {
	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	rv, err := h.Reviews.Add(c.Request().Context(), service.ReviewInput{
		RestaurantID: req.RestaurantID,
		Comment:      req.Comment,
		Score:        req.Score,
		AuthorName:   req.AuthorName,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toReviewDTO(*rv))
}

// ListReviews handles GET /api/restaurants/:id/reviews.
func (h *RestaurantHandler) ListReviews(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid restaurant id")
	}
	rvs, err := h.Reviews.ListByRestaurant(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toReviewDTOs(rvs))
}

// LatestReviews handles GET /api/restaurants/:id/reviews/top.
func (h *RestaurantHandler) LatestReviews(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid restaurant id")
	}
	rvs, err := h.Reviews.Latest(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toReviewDTOs(rvs))
}
