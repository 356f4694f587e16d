package extract

import (
	"errors"
	"testing"

	"spext/internal/spotify"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func rawAlbum() spotify.Album {
	return spotify.Album{
		ID:               strPtr("al1"),
		Name:             strPtr("Blue Train"),
		AlbumType:        strPtr("album"),
		Artists:          []spotify.ArtistRef{{ID: "ar1"}, {ID: "ar2"}},
		ReleaseDate:      strPtr("1958-01-15"),
		TotalTracks:      intPtr(5),
		AvailableMarkets: []string{"US", "GB"},
		Popularity:       intPtr(70),
		URI:              strPtr("spotify:album:al1"),
	}
}

func rawTrack() spotify.Track {
	return spotify.Track{
		ID:               strPtr("tr1"),
		Name:             strPtr("Blue Train"),
		Artists:          []spotify.ArtistRef{{ID: "ar1"}, {ID: "ar2"}},
		Album:            &spotify.AlbumRef{ID: "al1"},
		AvailableMarkets: []string{"US"},
		Popularity:       intPtr(60),
		DurationMS:       intPtr(643000),
		TrackNumber:      intPtr(1),
		DiscNumber:       intPtr(1),
		Explicit:         false,
		URI:              strPtr("spotify:track:tr1"),
	}
}

func TestMapAlbum(t *testing.T) {
	t.Run("maps a complete album", func(t *testing.T) {
		album, err := MapAlbum(rawAlbum())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if album.AlbumID != "al1" || album.Name != "Blue Train" {
			t.Errorf("unexpected album: %+v", album)
		}
		if album.ArtistIDs != "ar1,ar2" {
			t.Errorf("expected comma-joined artist ids, got %q", album.ArtistIDs)
		}
		if album.Markets != `["US","GB"]` {
			t.Errorf("expected markets boxed as JSON, got %q", album.Markets)
		}
	})

	t.Run("fails on missing required field", func(t *testing.T) {
		raw := rawAlbum()
		raw.ReleaseDate = nil

		_, err := MapAlbum(raw)
		if err == nil {
			t.Fatal("expected error for missing release_date")
		}

		var mapErr *MappingError
		if !errors.As(err, &mapErr) {
			t.Fatalf("expected *MappingError, got %T", err)
		}
		if mapErr.Field != "release_date" || mapErr.Entity != "album" || mapErr.SourceID != "al1" {
			t.Errorf("unexpected mapping error: %+v", mapErr)
		}
	})

	t.Run("allows empty artist credits", func(t *testing.T) {
		raw := rawAlbum()
		raw.Artists = nil

		album, err := MapAlbum(raw)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if album.ArtistIDs != "" {
			t.Errorf("expected empty artist ids, got %q", album.ArtistIDs)
		}
	})
}

func TestMapArtist(t *testing.T) {
	raw := spotify.Artist{
		ID:         strPtr("ar1"),
		Name:       strPtr("John Coltrane"),
		Genres:     []string{"jazz", "hard bop"},
		Followers:  &spotify.Followers{Total: 4000000},
		Popularity: intPtr(75),
		URI:        strPtr("spotify:artist:ar1"),
	}

	t.Run("maps a complete artist", func(t *testing.T) {
		artist, err := MapArtist(raw)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if artist.Genres != `["jazz","hard bop"]` {
			t.Errorf("expected genres boxed as JSON, got %q", artist.Genres)
		}
		if artist.Followers != 4000000 {
			t.Errorf("expected follower count flattened, got %d", artist.Followers)
		}
	})

	t.Run("fails on missing followers", func(t *testing.T) {
		broken := raw
		broken.Followers = nil

		_, err := MapArtist(broken)
		var mapErr *MappingError
		if !errors.As(err, &mapErr) || mapErr.Field != "followers" {
			t.Fatalf("expected MappingError on followers, got %v", err)
		}
	})
}

func TestMapTrack(t *testing.T) {
	t.Run("keeps only the first credited artist", func(t *testing.T) {
		track, err := MapTrack(rawTrack())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if track.ArtistID != "ar1" {
			t.Errorf("expected first artist retained, got %q", track.ArtistID)
		}
		if track.DurationMS != 643000 {
			t.Errorf("unexpected duration: %d", track.DurationMS)
		}
	})

	t.Run("drops a track without duration", func(t *testing.T) {
		raw := rawTrack()
		raw.DurationMS = nil

		_, err := MapTrack(raw)
		var mapErr *MappingError
		if !errors.As(err, &mapErr) || mapErr.Field != "duration_ms" {
			t.Fatalf("expected MappingError on duration_ms, got %v", err)
		}
		if mapErr.SourceID != "tr1" {
			t.Errorf("expected the source id carried, got %q", mapErr.SourceID)
		}
	})

	t.Run("requires at least one artist", func(t *testing.T) {
		raw := rawTrack()
		raw.Artists = nil

		_, err := MapTrack(raw)
		var mapErr *MappingError
		if !errors.As(err, &mapErr) || mapErr.Field != "artists" {
			t.Fatalf("expected MappingError on artists, got %v", err)
		}
	})

	t.Run("absent flags default to false", func(t *testing.T) {
		track, err := MapTrack(rawTrack())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if track.Explicit || track.Local {
			t.Errorf("expected false flags, got explicit=%v local=%v", track.Explicit, track.Local)
		}
	})
}

func TestMapPlaylist(t *testing.T) {
	raw := spotify.Playlist{
		ID:     strPtr("pl1"),
		Name:   strPtr("Morning Jazz"),
		Owner:  &spotify.Owner{ID: "u1"},
		Public: true,
		Tracks: &spotify.PlaylistTracks{Total: 12},
		URI:    strPtr("spotify:playlist:pl1"),
	}

	t.Run("maps a complete playlist", func(t *testing.T) {
		playlist, err := MapPlaylist(raw)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlist.OwnerID != "u1" || playlist.TotalTracks != 12 || !playlist.Public {
			t.Errorf("unexpected playlist: %+v", playlist)
		}
	})

	t.Run("fails on missing owner", func(t *testing.T) {
		broken := raw
		broken.Owner = nil

		_, err := MapPlaylist(broken)
		var mapErr *MappingError
		if !errors.As(err, &mapErr) || mapErr.Field != "owner" {
			t.Fatalf("expected MappingError on owner, got %v", err)
		}
	})
}

func TestMapUser(t *testing.T) {
	user, err := MapUser(spotify.User{
		ID:        strPtr("u1"),
		Followers: &spotify.Followers{Total: 9},
		URI:       strPtr("spotify:user:u1"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.UserID != "u1" || user.Followers != 9 {
		t.Errorf("unexpected user: %+v", user)
	}

	_, err = MapUser(spotify.User{ID: strPtr("u2"), URI: strPtr("spotify:user:u2")})
	var mapErr *MappingError
	if !errors.As(err, &mapErr) || mapErr.Field != "followers" {
		t.Fatalf("expected MappingError on followers, got %v", err)
	}
}

func TestNullString(t *testing.T) {
	if v := nullString(nil); v.Valid {
		t.Error("expected invalid for nil")
	}
	if v := nullString(strPtr("")); v.Valid {
		t.Error("expected invalid for empty string")
	}
	if v := nullString(strPtr("2024-01-01T00:00:00Z")); !v.Valid || v.String != "2024-01-01T00:00:00Z" {
		t.Errorf("expected valid timestamp, got %+v", v)
	}
}
