package extract

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"

	"spext/internal/models"
	"spext/internal/spotify"
)

// Batch sizes are properties of the remote API's bulk endpoints, not
// tunables.
const (
	AlbumBatchSize  = 20
	ArtistBatchSize = 50
	TrackBatchSize  = 50
)

// Extractor drives the bulk endpoints and the playlist walk through
// one shared resilient client.
type Extractor struct {
	client *spotify.Client
	logger *log.Logger
}

// NewExtractor creates an Extractor using the given client.
func NewExtractor(client *spotify.Client, logger *log.Logger) *Extractor {
	return &Extractor{client: client, logger: logger}
}

// Windows partitions ids into consecutive windows of at most size,
// preserving the original order.
func Windows(ids []string, size int) [][]string {
	if size <= 0 || len(ids) == 0 {
		return nil
	}

	var windows [][]string
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		windows = append(windows, ids[start:end])
	}
	return windows
}

func bulkEndpoint(resource string, window []string) string {
	return "/" + resource + "?ids=" + url.QueryEscape(strings.Join(window, ","))
}

// Albums fetches albums through the bulk endpoint in windows of
// [AlbumBatchSize]. A window-level failure drops only that window's
// ids; null response slots (unresolvable ids) are skipped with a
// logged cause. Cancellation is honored between windows.
func (e *Extractor) Albums(ctx context.Context, ids []string) []models.Album {
	var albums []models.Album

	for i, window := range Windows(ids, AlbumBatchSize) {
		if ctx.Err() != nil {
			return albums
		}

		var env spotify.AlbumsEnvelope
		if err := e.client.GetJSON(ctx, bulkEndpoint("albums", window), &env); err != nil {
			e.logger.Warn("album batch failed", "batch", i+1, "ids", len(window), "error", err)
			continue
		}

		fetched := 0
		for j, raw := range env.Albums {
			if raw == nil {
				e.logger.Warn("album not found", "id", slotID(window, j))
				continue
			}
			album, err := MapAlbum(*raw)
			if err != nil {
				e.logger.Warn("album dropped", "error", err)
				continue
			}
			albums = append(albums, album)
			fetched++
		}
		e.logger.Info("fetched albums", "batch", i+1, "count", fetched)
	}

	return albums
}

// Artists fetches artists through the bulk endpoint in windows of
// [ArtistBatchSize], with the same window and null-slot semantics as
// Albums.
func (e *Extractor) Artists(ctx context.Context, ids []string) []models.Artist {
	var artists []models.Artist

	for i, window := range Windows(ids, ArtistBatchSize) {
		if ctx.Err() != nil {
			return artists
		}

		var env spotify.ArtistsEnvelope
		if err := e.client.GetJSON(ctx, bulkEndpoint("artists", window), &env); err != nil {
			e.logger.Warn("artist batch failed", "batch", i+1, "ids", len(window), "error", err)
			continue
		}

		fetched := 0
		for j, raw := range env.Artists {
			if raw == nil {
				e.logger.Warn("artist not found", "id", slotID(window, j))
				continue
			}
			artist, err := MapArtist(*raw)
			if err != nil {
				e.logger.Warn("artist dropped", "error", err)
				continue
			}
			artists = append(artists, artist)
			fetched++
		}
		e.logger.Info("fetched artists", "batch", i+1, "count", fetched)
	}

	return artists
}

// Tracks fetches tracks through the bulk endpoint in windows of
// [TrackBatchSize], with the same window and null-slot semantics as
// Albums.
func (e *Extractor) Tracks(ctx context.Context, ids []string) []models.Track {
	var tracks []models.Track

	for i, window := range Windows(ids, TrackBatchSize) {
		if ctx.Err() != nil {
			return tracks
		}

		var env spotify.TracksEnvelope
		if err := e.client.GetJSON(ctx, bulkEndpoint("tracks", window), &env); err != nil {
			e.logger.Warn("track batch failed", "batch", i+1, "ids", len(window), "error", err)
			continue
		}

		fetched := 0
		for j, raw := range env.Tracks {
			if raw == nil {
				e.logger.Warn("track not found", "id", slotID(window, j))
				continue
			}
			track, err := MapTrack(*raw)
			if err != nil {
				e.logger.Warn("track dropped", "error", err)
				continue
			}
			tracks = append(tracks, track)
			fetched++
		}
		e.logger.Info("fetched tracks", "batch", i+1, "count", fetched)
	}

	return tracks
}

// PlaylistData bundles the playlist-derived datasets: the playlists
// themselves, their flattened track memberships, and the deduplicated
// owner profiles.
type PlaylistData struct {
	Playlists []models.Playlist
	Links     []models.PlaylistTrackLink
	Users     []models.User
}

// Playlists fetches each playlist individually (the API has no bulk
// playlist lookup): full detail plus the embedded first page of its
// track listing in one call, then cursor pagination for the rest.
// Each distinct owner is fetched exactly once per run; later playlists
// sharing that owner reuse the cached result. Link rows are only ever
// emitted under a playlist that mapped successfully, so a link can
// never reference a playlist missing from the same run.
func (e *Extractor) Playlists(ctx context.Context, ids []string) PlaylistData {
	var out PlaylistData
	seenOwners := make(map[string]bool)

	for _, pid := range ids {
		if ctx.Err() != nil {
			return out
		}

		var raw spotify.Playlist
		if err := e.client.GetJSON(ctx, "/playlists/"+pid, &raw); err != nil {
			e.logger.Warn("could not fetch playlist", "id", pid, "error", err)
			continue
		}

		playlist, err := MapPlaylist(raw)
		if err != nil {
			e.logger.Warn("playlist dropped", "error", err)
			continue
		}
		out.Playlists = append(out.Playlists, playlist)

		if owner := playlist.OwnerID; owner != "" && !seenOwners[owner] {
			seenOwners[owner] = true
			var rawUser spotify.User
			if err := e.client.GetJSON(ctx, "/users/"+owner, &rawUser); err != nil {
				e.logger.Warn("user info not found", "owner_id", owner, "error", err)
			} else if user, err := MapUser(rawUser); err != nil {
				e.logger.Warn("user dropped", "error", err)
			} else {
				out.Users = append(out.Users, user)
			}
		}

		out.Links = append(out.Links, e.playlistLinks(ctx, pid, raw.Tracks)...)
	}

	return out
}

// playlistLinks flattens a playlist's track listing (embedded first
// page plus paginated continuation) into join rows. Entries whose
// track is null cannot produce a keyed row and are dropped with a
// warning; a null added_at on a present track is preserved as NULL.
func (e *Extractor) playlistLinks(ctx context.Context, pid string, tracks *spotify.PlaylistTracks) []models.PlaylistTrackLink {
	if tracks == nil {
		return nil
	}

	entries := append([]spotify.PlaylistEntry{}, tracks.Items...)

	if tracks.Next != nil && *tracks.Next != "" {
		raws, err := e.client.FetchAllPages(ctx, *tracks.Next)
		if err != nil {
			e.logger.Warn("playlist track listing truncated",
				"playlist_id", pid, "collected", len(raws), "error", err)
		}
		for _, r := range raws {
			var entry spotify.PlaylistEntry
			if err := json.Unmarshal(r, &entry); err != nil {
				e.logger.Warn("undecodable playlist entry", "playlist_id", pid, "error", err)
				continue
			}
			entries = append(entries, entry)
		}
	}

	var links []models.PlaylistTrackLink
	for _, entry := range entries {
		if entry.Track == nil || entry.Track.ID == nil {
			e.logger.Warn("playlist entry has no track", "playlist_id", pid)
			continue
		}
		links = append(links, models.PlaylistTrackLink{
			PlaylistID: pid,
			TrackID:    *entry.Track.ID,
			AddedAt:    nullString(entry.AddedAt),
		})
	}

	return links
}

// slotID maps a bulk response slot back to the id that produced it.
func slotID(window []string, i int) string {
	if i < len(window) {
		return window[i]
	}
	return "unknown"
}
