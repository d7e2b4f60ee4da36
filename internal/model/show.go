package model

import "time"

// Show represents a screening that tickets can be bought for.  Every show
// uses the same seating grid (rows × cells) defined by the global grid
// configuration, so the model carries no per-show layout.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – movie or event name displayed to users.
//  Description – longer text shown on the show page.
//  PosterURL   – reference to the poster image.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Show struct {
    ID          uint64    // shows.id
    Name        string    // shows.name
    Description string    // shows.description
    PosterURL   string    // shows.poster_url
    CreatedAt   time.Time // shows.created_at
    UpdatedAt   time.Time // shows.updated_at
}
