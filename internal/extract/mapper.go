package extract

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"spext/internal/models"
	"spext/internal/spotify"
)

// MappingError reports a required key absent from a raw API object.
// The affected record is dropped and the run continues; mapping never
// aborts an extraction.
type MappingError struct {
	Entity   string
	Field    string
	SourceID string
}

func (e *MappingError) Error() string {
	if e.SourceID != "" {
		return fmt.Sprintf("missing field %s in %s data (id %s)", e.Field, e.Entity, e.SourceID)
	}
	return fmt.Sprintf("missing field %s in %s data", e.Field, e.Entity)
}

// fieldCheck pairs a required field name with its presence.
type fieldCheck struct {
	name string
	ok   bool
}

func firstMissing(checks ...fieldCheck) string {
	for _, c := range checks {
		if !c.ok {
			return c.name
		}
	}
	return ""
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// boxStrings serializes a string slice to JSON text so the tabular
// sink never models nested collections. A nil slice boxes to "[]".
func boxStrings(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

// nullString converts an optional timestamp into its SQL form.
func nullString(p *string) sql.NullString {
	if p == nil || *p == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

// MapAlbum maps a raw album resource. Required: id, name, album_type,
// release_date, total_tracks, available_markets, popularity, uri.
// The credited artist list is optional and comma-joined.
func MapAlbum(raw spotify.Album) (models.Album, error) {
	if f := firstMissing(
		fieldCheck{"id", raw.ID != nil},
		fieldCheck{"name", raw.Name != nil},
		fieldCheck{"album_type", raw.AlbumType != nil},
		fieldCheck{"release_date", raw.ReleaseDate != nil},
		fieldCheck{"total_tracks", raw.TotalTracks != nil},
		fieldCheck{"available_markets", raw.AvailableMarkets != nil},
		fieldCheck{"popularity", raw.Popularity != nil},
		fieldCheck{"uri", raw.URI != nil},
	); f != "" {
		return models.Album{}, &MappingError{Entity: "album", Field: f, SourceID: strVal(raw.ID)}
	}

	artistIDs := make([]string, 0, len(raw.Artists))
	for _, a := range raw.Artists {
		artistIDs = append(artistIDs, a.ID)
	}

	return models.Album{
		AlbumID:     *raw.ID,
		Name:        *raw.Name,
		Type:        *raw.AlbumType,
		ArtistIDs:   strings.Join(artistIDs, ","),
		ReleaseDate: *raw.ReleaseDate,
		TotalTracks: *raw.TotalTracks,
		Markets:     boxStrings(raw.AvailableMarkets),
		Popularity:  *raw.Popularity,
		URI:         *raw.URI,
	}, nil
}

// MapArtist maps a raw artist resource. Required: id, name, genres,
// followers, popularity, uri.
func MapArtist(raw spotify.Artist) (models.Artist, error) {
	if f := firstMissing(
		fieldCheck{"id", raw.ID != nil},
		fieldCheck{"name", raw.Name != nil},
		fieldCheck{"genres", raw.Genres != nil},
		fieldCheck{"followers", raw.Followers != nil},
		fieldCheck{"popularity", raw.Popularity != nil},
		fieldCheck{"uri", raw.URI != nil},
	); f != "" {
		return models.Artist{}, &MappingError{Entity: "artist", Field: f, SourceID: strVal(raw.ID)}
	}

	return models.Artist{
		ArtistID:   *raw.ID,
		Name:       *raw.Name,
		Genres:     boxStrings(raw.Genres),
		Followers:  raw.Followers.Total,
		Popularity: *raw.Popularity,
		URI:        *raw.URI,
	}, nil
}

// MapTrack maps a raw track resource. Required: id, name, a non-empty
// artist list, album, available_markets, popularity, duration_ms,
// track_number, disc_number, uri. Only the first listed artist is
// retained. Explicit and local come from the raw value's truthiness,
// so an absent flag maps to false rather than failing the record.
func MapTrack(raw spotify.Track) (models.Track, error) {
	if f := firstMissing(
		fieldCheck{"id", raw.ID != nil},
		fieldCheck{"name", raw.Name != nil},
		fieldCheck{"artists", len(raw.Artists) > 0},
		fieldCheck{"album", raw.Album != nil},
		fieldCheck{"available_markets", raw.AvailableMarkets != nil},
		fieldCheck{"popularity", raw.Popularity != nil},
		fieldCheck{"duration_ms", raw.DurationMS != nil},
		fieldCheck{"track_number", raw.TrackNumber != nil},
		fieldCheck{"disc_number", raw.DiscNumber != nil},
		fieldCheck{"uri", raw.URI != nil},
	); f != "" {
		return models.Track{}, &MappingError{Entity: "track", Field: f, SourceID: strVal(raw.ID)}
	}

	return models.Track{
		TrackID:     *raw.ID,
		Name:        *raw.Name,
		ArtistID:    raw.Artists[0].ID,
		AlbumID:     raw.Album.ID,
		Markets:     boxStrings(raw.AvailableMarkets),
		Popularity:  *raw.Popularity,
		DurationMS:  *raw.DurationMS,
		TrackNumber: *raw.TrackNumber,
		DiscNumber:  *raw.DiscNumber,
		Explicit:    raw.Explicit,
		Local:       raw.IsLocal,
		URI:         *raw.URI,
	}, nil
}

// MapPlaylist maps a raw playlist resource. Required: id, name, owner,
// tracks, uri. Public follows truthiness: a null value maps to false.
func MapPlaylist(raw spotify.Playlist) (models.Playlist, error) {
	if f := firstMissing(
		fieldCheck{"id", raw.ID != nil},
		fieldCheck{"name", raw.Name != nil},
		fieldCheck{"owner", raw.Owner != nil},
		fieldCheck{"tracks", raw.Tracks != nil},
		fieldCheck{"uri", raw.URI != nil},
	); f != "" {
		return models.Playlist{}, &MappingError{Entity: "playlist", Field: f, SourceID: strVal(raw.ID)}
	}

	return models.Playlist{
		PlaylistID:  *raw.ID,
		Name:        *raw.Name,
		OwnerID:     raw.Owner.ID,
		TotalTracks: raw.Tracks.Total,
		Public:      raw.Public,
		URI:         *raw.URI,
	}, nil
}

// MapUser maps a raw user profile. Required: id, followers, uri.
func MapUser(raw spotify.User) (models.User, error) {
	if f := firstMissing(
		fieldCheck{"id", raw.ID != nil},
		fieldCheck{"followers", raw.Followers != nil},
		fieldCheck{"uri", raw.URI != nil},
	); f != "" {
		return models.User{}, &MappingError{Entity: "user", Field: f, SourceID: strVal(raw.ID)}
	}

	return models.User{
		UserID:    *raw.ID,
		Followers: raw.Followers.Total,
		URI:       *raw.URI,
	}, nil
}
