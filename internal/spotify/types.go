package spotify

// Followers is the nested follower-count object shared by artists and
// users.
type Followers struct {
	Total int `json:"total"`
}

// ArtistRef is the lightweight artist object embedded in albums and
// tracks.
type ArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AlbumRef is the lightweight album object embedded in tracks.
type AlbumRef struct {
	ID string `json:"id"`
}

// Album represents a full album resource.
type Album struct {
	ID               *string     `json:"id"`
	Name             *string     `json:"name"`
	AlbumType        *string     `json:"album_type"`
	Artists          []ArtistRef `json:"artists"`
	ReleaseDate      *string     `json:"release_date"`
	TotalTracks      *int        `json:"total_tracks"`
	AvailableMarkets []string    `json:"available_markets"`
	Popularity       *int        `json:"popularity"`
	URI              *string     `json:"uri"`
}

// Artist represents a full artist resource.
type Artist struct {
	ID         *string    `json:"id"`
	Name       *string    `json:"name"`
	Genres     []string   `json:"genres"`
	Followers  *Followers `json:"followers"`
	Popularity *int       `json:"popularity"`
	URI        *string    `json:"uri"`
}

// Track represents a full track resource.
type Track struct {
	ID               *string     `json:"id"`
	Name             *string     `json:"name"`
	Artists          []ArtistRef `json:"artists"`
	Album            *AlbumRef   `json:"album"`
	AvailableMarkets []string    `json:"available_markets"`
	Popularity       *int        `json:"popularity"`
	DurationMS       *int        `json:"duration_ms"`
	TrackNumber      *int        `json:"track_number"`
	DiscNumber       *int        `json:"disc_number"`
	Explicit         bool        `json:"explicit"`
	IsLocal          bool        `json:"is_local"`
	URI              *string     `json:"uri"`
}

// Owner is the playlist owner object.
type Owner struct {
	ID string `json:"id"`
}

// PlaylistTracks is the track listing embedded in a playlist detail
// response: the first page of entries plus a pagination cursor.
type PlaylistTracks struct {
	Total int             `json:"total"`
	Items []PlaylistEntry `json:"items"`
	Next  *string         `json:"next"`
}

// PlaylistEntry is one track membership inside a playlist. Track is
// null for removed or purely local entries; AddedAt is null for local
// files.
type PlaylistEntry struct {
	AddedAt *string   `json:"added_at"`
	Track   *TrackRef `json:"track"`
}

// TrackRef is the track object inside a playlist entry.
type TrackRef struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}

// Playlist represents a full playlist resource including the embedded
// first page of its track listing.
type Playlist struct {
	ID     *string         `json:"id"`
	Name   *string         `json:"name"`
	Owner  *Owner          `json:"owner"`
	Public bool            `json:"public"`
	Tracks *PlaylistTracks `json:"tracks"`
	URI    *string         `json:"uri"`
}

// User represents a public user profile.
type User struct {
	ID        *string    `json:"id"`
	Followers *Followers `json:"followers"`
	URI       *string    `json:"uri"`
}

// AlbumsEnvelope is the bulk albums response; slots are null for ids
// the API could not resolve.
type AlbumsEnvelope struct {
	Albums []*Album `json:"albums"`
}

// ArtistsEnvelope is the bulk artists response.
type ArtistsEnvelope struct {
	Artists []*Artist `json:"artists"`
}

// TracksEnvelope is the bulk tracks response.
type TracksEnvelope struct {
	Tracks []*Track `json:"tracks"`
}
