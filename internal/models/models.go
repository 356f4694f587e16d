package models

import "database/sql"

// Album is a catalog album keyed by AlbumID. ArtistIDs holds every
// credited artist id comma-joined, deliberately not normalized.
type Album struct {
	AlbumID     string `json:"album_id"`
	Name        string `json:"album_name"`
	Type        string `json:"album_type"`
	ArtistIDs   string `json:"artist_ids"`
	ReleaseDate string `json:"release_date"`
	TotalTracks int    `json:"total_tracks"`
	Markets     string `json:"markets"`
	Popularity  int    `json:"popularity"`
	URI         string `json:"album_uri"`
}

// Artist is a catalog artist keyed by ArtistID. Genres is a JSON array
// of strings; a derived step denormalizes it into artist_genres rows.
type Artist struct {
	ArtistID   string `json:"artist_id"`
	Name       string `json:"artist_name"`
	Genres     string `json:"genres"`
	Followers  int    `json:"followers"`
	Popularity int    `json:"popularity"`
	URI        string `json:"artist_uri"`
}

// Track is a catalog track keyed by TrackID. Only the first listed
// artist is retained.
type Track struct {
	TrackID     string `json:"track_id"`
	Name        string `json:"track_name"`
	ArtistID    string `json:"artist_id"`
	AlbumID     string `json:"album_id"`
	Markets     string `json:"markets"`
	Popularity  int    `json:"popularity"`
	DurationMS  int    `json:"duration_ms"`
	TrackNumber int    `json:"track_number"`
	DiscNumber  int    `json:"disc_number"`
	Explicit    bool   `json:"explicit"`
	Local       bool   `json:"local"`
	URI         string `json:"track_uri"`
}

// Playlist is keyed by PlaylistID; OwnerID references a User collected
// in the same run.
type Playlist struct {
	PlaylistID  string `json:"playlist_id"`
	Name        string `json:"playlist_name"`
	OwnerID     string `json:"owner_id"`
	TotalTracks int    `json:"total_tracks"`
	Public      bool   `json:"public"`
	URI         string `json:"playlist_uri"`
}

// PlaylistTrackLink is the playlist/track join row, keyed by the
// (playlist_id, track_id, added_at) triple. AddedAt is NULL when the
// source entry carried no timestamp (local files).
type PlaylistTrackLink struct {
	PlaylistID string         `json:"playlist_id"`
	TrackID    string         `json:"track_id"`
	AddedAt    sql.NullString `json:"added_at"`
}

// User is a playlist owner keyed by UserID. Users are only ever
// collected as playlist owners, never fetched independently.
type User struct {
	UserID    string `json:"user_id"`
	Followers int    `json:"followers"`
	URI       string `json:"user_uri"`
}

// Datasets bundles the six named output datasets of one extraction run.
type Datasets struct {
	Albums         []Album
	Artists        []Artist
	Tracks         []Track
	Playlists      []Playlist
	PlaylistTracks []PlaylistTrackLink
	Users          []User
}

// Empty reports whether every dataset in the bundle is empty.
func (d *Datasets) Empty() bool {
	return len(d.Albums) == 0 &&
		len(d.Artists) == 0 &&
		len(d.Tracks) == 0 &&
		len(d.Playlists) == 0 &&
		len(d.PlaylistTracks) == 0 &&
		len(d.Users) == 0
}

// Counts returns the per-dataset record counts keyed by table name.
func (d *Datasets) Counts() map[string]int {
	return map[string]int{
		"albums":          len(d.Albums),
		"artists":         len(d.Artists),
		"tracks":          len(d.Tracks),
		"playlists":       len(d.Playlists),
		"playlist_tracks": len(d.PlaylistTracks),
		"users":           len(d.Users),
	}
}
