package model

import "time"

// Restaurant represents a row in the `restaurants` table.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – display name.
//  Address       – postal address.
//  Latitude      – decimal degrees.
//  Longitude     – decimal degrees.
//  CuisineType   – free-text category tag (e.g. "Moroccan").
//  Description   – free-text description (nullable).
//  OpenTime      – opening time of day as HH:mm (nullable).
//  CloseTime     – closing time of day as HH:mm (nullable). May be
//                  earlier than OpenTime when the window crosses midnight.
//  AveragePrice  – average price per guest (nullable).
//  Rating        – arithmetic mean of all review scores, 0 when unrated.
//  ReviewCount   – number of reviews backing Rating.
//  TotalCapacity – total seats (nullable).
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Restaurant struct {
    ID            uint64    // restaurants.id
    Name          string    // restaurants.name
    Address       string    // restaurants.address
    Latitude      float64   // restaurants.latitude
    Longitude     float64   // restaurants.longitude
    CuisineType   string    // restaurants.cuisine_type
    Description   *string   // restaurants.description (nullable)
    OpenTime      *string   // restaurants.open_time (nullable)
    CloseTime     *string   // restaurants.close_time (nullable)
    AveragePrice  *float64  // restaurants.average_price (nullable)
    Rating        float64   // restaurants.rating
    ReviewCount   int       // restaurants.review_count
    TotalCapacity *int      // restaurants.total_capacity (nullable)
    CreatedAt     time.Time // restaurants.created_at
    UpdatedAt     time.Time // restaurants.updated_at
}
