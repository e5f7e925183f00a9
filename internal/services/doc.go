// Package services implements the playlist sources the player and the proxy read from.
//
// # Sources
//
// Every source implements [PlaylistSource] and returns a complete [models.Snapshot]; there is no partial or
// incremental update.
//
// # YouTube Data API
//
// [YouTubeService] reads playlistItems (part=snippet,contentDetails, 50 per page) and follows nextPageToken
// until the playlist is exhausted. It authenticates with an API key or, when an access token is configured,
// with a bearer token supplied by an [oauth2.StaticTokenSource]. Page requests go through a [rate.Limiter].
//
// Item mapping:
//   - id: contentDetails.videoId, falling back to snippet.resourceId.videoId
//   - owner: snippet.videoOwnerChannelTitle, falling back to snippet.channelTitle
//   - thumbnail: the medium thumbnail, falling back to default
//
// Items without an id and the "Private video" / "Deleted video" placeholders are dropped.
//
// # Playlist proxy
//
// [PlaylistClient] reads GET /api/playlist as served by the server package. Error payloads have the shape
// [ErrorResponse].
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMissingCredentials] : neither api key nor access token configured
//   - [shared.ErrAPIRequest] : YouTube request failed
//   - [shared.ErrPlaylistNotFound] : playlist ID not found
//   - [shared.ErrFetch] : proxy request failed or returned a malformed payload
package services
