package handler

import (
	"time"

	"github.com/iliyamo/restaurant-booking/internal/model"
	"github.com/iliyamo/restaurant-booking/internal/service"
)

// RestaurantDTO is the wire form of a restaurant.  The reservation
// service's client decodes the same field names.
type RestaurantDTO struct {
	ID            uint64    `json:"id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	CuisineType   string    `json:"cuisine_type"`
	Description   *string   `json:"description"`
	OpenTime      *string   `json:"open_time"`
	CloseTime     *string   `json:"close_time"`
	AveragePrice  *float64  `json:"average_price"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"review_count"`
	TotalCapacity *int      `json:"total_capacity"`
	DistanceKm    *float64  `json:"distance_km,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toRestaurantDTO(r model.Restaurant) RestaurantDTO {
	return RestaurantDTO{
		ID:            r.ID,
		Name:          r.Name,
		Address:       r.Address,
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		CuisineType:   r.CuisineType,
		Description:   r.Description,
		OpenTime:      r.OpenTime,
		CloseTime:     r.CloseTime,
		AveragePrice:  r.AveragePrice,
		Rating:        r.Rating,
		ReviewCount:   r.ReviewCount,
		TotalCapacity: r.TotalCapacity,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func toRestaurantDTOs(rs []model.Restaurant) []RestaurantDTO {
	out := make([]RestaurantDTO, 0, len(rs))
	for _, r := range rs {
		out = append(out, toRestaurantDTO(r))
	}
	return out
}

func hitDTOs(hits []service.SearchHit) []RestaurantDTO {
	out := make([]RestaurantDTO, 0, len(hits))
	for _, h := range hits {
		d := toRestaurantDTO(h.Restaurant)
		d.DistanceKm = h.Distance
		out = append(out, d)
	}
	return out
}

// RestaurantRequest is the body of restaurant create and update calls.
type RestaurantRequest struct {
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	CuisineType   string   `json:"cuisine_type"`
	Description   *string  `json:"description"`
	OpenTime      *string  `json:"open_time"`
	CloseTime     *string  `json:"close_time"`
	AveragePrice  *float64 `json:"average_price"`
	TotalCapacity *int     `json:"total_capacity"`
}

// SearchRequest is the body of POST /api/restaurants/search.
type SearchRequest struct {
	Name        string   `json:"name"`
	CuisineType string   `json:"cuisine_type"`
	MinRating   *float64 `json:"min_rating"`
	MinPrice    *float64 `json:"min_price"`
	MaxPrice    *float64 `json:"max_price"`
	MinCapacity *int     `json:"min_capacity"`
	MaxCapacity *int     `json:"max_capacity"`
	OpenNow     bool     `json:"open_now"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	RadiusKm    *float64 `json:"radius_km"`
	Sort        string   `json:"sort"`
	Page        int      `json:"page"`
	PageSize    int      `json:"page_size"`
}

func (r SearchRequest) query() service.SearchQuery {
	return service.SearchQuery{
		Name:        r.Name,
		CuisineType: r.CuisineType,
		MinRating:   r.MinRating,
		MinPrice:    r.MinPrice,
		MaxPrice:    r.MaxPrice,
		MinCapacity: r.MinCapacity,
		MaxCapacity: r.MaxCapacity,
		OpenNow:     r.OpenNow,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		RadiusKm:    r.RadiusKm,
		Sort:        r.Sort,
		Page:        r.Page,
		PageSize:    r.PageSize,
	}
}

// ReviewDTO is the wire form of a review.
type ReviewDTO struct {
	ID             uint64    `json:"id"`
	RestaurantID   uint64    `json:"restaurant_id"`
	RestaurantName string    `json:"restaurant_name,omitempty"`
	Comment        string    `json:"comment"`
	Score          int       `json:"score"`
	AuthorName     string    `json:"author_name"`
	CreatedAt      time.Time `json:"created_at"`
}

func toReviewDTOs(rs []service.ReviewDetail) []ReviewDTO {
	out := make([]ReviewDTO, 0, len(rs))
	for _, r := range rs {
		out = append(out, toReviewDTO(r))
	}
	return out
}

func toReviewDTO(r service.ReviewDetail) ReviewDTO {
	return ReviewDTO{
		ID:             r.ID,
		RestaurantID:   r.RestaurantID,
		RestaurantName: r.RestaurantName,
		Comment:        r.Comment,
		Score:          r.Score,
		AuthorName:     r.AuthorName,
		CreatedAt:      r.CreatedAt,
	}
}

// AvailabilityDTO is the wire form of an availability answer.
type AvailabilityDTO struct {
	Available      bool     `json:"available"`
	Message        string   `json:"message"`
	RestaurantName string   `json:"restaurant_name,omitempty"`
	Capacity       *int     `json:"capacity,omitempty"`
	PriceRange     *float64 `json:"price_range,omitempty"`
}

func toAvailabilityDTO(a service.Availability) AvailabilityDTO {
	return AvailabilityDTO{
		Available:      a.Available,
		Message:        a.Message,
		RestaurantName: a.RestaurantName,
		Capacity:       a.Capacity,
		PriceRange:     a.PriceRange,
	}
}

// UserDTO is the wire form of a user.
type UserDTO struct {
	ID        uint64    `json:"id"`
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserDTO(u model.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		UserID:    u.UserID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}

// UserRequest is the body of user create and update calls.  UserID and
// Email are ignored on update.
type UserRequest struct {
	UserID    string  `json:"user_id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
}

// ReservationDTO is the wire form of a reservation.  DateTime is a local
// date-time in the service time zone.
type ReservationDTO struct {
	ID              uint64    `json:"id"`
	RestaurantID    uint64    `json:"restaurant_id"`
	UserID          uint64    `json:"user_id"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	CustomerPhone   *string   `json:"customer_phone"`
	DateTime        string    `json:"date_time"`
	Guests          int       `json:"guests"`
	Status          string    `json:"status"`
	SpecialRequests *string   `json:"special_requests"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ReservationRequest is the body of reservation create and update calls.
type ReservationRequest struct {
	RestaurantID    uint64  `json:"restaurant_id"`
	UserID          uint64  `json:"user_id"`
	CustomerName    string  `json:"customer_name"`
	CustomerEmail   string  `json:"customer_email"`
	CustomerPhone   *string `json:"customer_phone"`
	DateTime        string  `json:"date_time"`
	Guests          int     `json:"guests"`
	SpecialRequests *string `json:"special_requests"`
}
