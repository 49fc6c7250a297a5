package stats

import "time"

// Report is the statistics view of the catalog, computed from a single snapshot.
type Report struct {
	TotalSongs   int `json:"totalSongs"`
	TotalArtists int `json:"totalArtists"`
	TotalAlbums  int `json:"totalAlbums"`
	TotalGenres  int `json:"totalGenres"`

	SongsPerGenre   []GenreCount       `json:"songsPerGenre"`
	SongsPerArtist  []ArtistCount      `json:"songsPerArtist"`
	AlbumsPerArtist []ArtistAlbumCount `json:"albumsPerArtist"`
	SongsPerAlbum   []AlbumCount       `json:"songsPerAlbum"`
	LatestSongs     []LatestSong       `json:"latestSongs"`

	TopGenres  []GenreCount `json:"topGenres"`
	Top5Genres []GenreCount `json:"top5Genres"`

	MostProductiveArtist *ProductiveArtist `json:"mostProductiveArtist"`
	AverageSongsPerAlbum float64           `json:"averageSongsPerAlbum"`

	ArtistAlbumSongTree []ArtistNode `json:"artistAlbumSongTree"`
}

// GenreCount is the number of songs tagged with a genre.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// ArtistCount is the number of songs by an artist.
type ArtistCount struct {
	Artist string `json:"artist"`
	Count  int    `json:"count"`
}

// ArtistAlbumCount is the number of distinct albums an artist appears on.
type ArtistAlbumCount struct {
	Artist     string `json:"artist"`
	AlbumCount int    `json:"albumCount"`
}

// AlbumCount is the number of songs on an album.
type AlbumCount struct {
	Album string `json:"album"`
	Count int    `json:"count"`
}

// LatestSong is a recently added song.
type LatestSong struct {
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	Album     string    `json:"album"`
	Genre     string    `json:"genre"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProductiveArtist is the artist with the most songs.
type ProductiveArtist struct {
	Artist    string `json:"artist"`
	SongCount int    `json:"songCount"`
}

// ArtistNode is the first level of the artist -> album -> songs tree.
type ArtistNode struct {
	Artist string      `json:"artist"`
	Albums []AlbumNode `json:"albums"`
}

// AlbumNode groups the songs of one artist's album.
type AlbumNode struct {
	Album string     `json:"album"`
	Songs []SongLeaf `json:"songs"`
}

// SongLeaf is a song as it appears in the tree.
type SongLeaf struct {
	Title     string    `json:"title"`
	Genre     string    `json:"genre"`
	CreatedAt time.Time `json:"createdAt"`
}
