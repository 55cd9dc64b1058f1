package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const boardGuideURI = "reelboard://docs/board-guide"

const serverInstructions = `reelboard keeps a personal movie board with three columns: watchlist, watching, watched.

Workflow:
1) Call load_movies once at the start. It seeds the board on first use and is a no-op afterwards.
2) Browse with get_board (all three columns) or list_movies (one column).
3) Narrow with set_search_query; it is a case-insensitive substring match on names and applies to every view.
4) Change the board with add_movie, move_movie and update_review.

Unknown ids are not errors: move_movie and update_review return found=false and change nothing.

Docs: ` + boardGuideURI + `
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         boardGuideURI,
		Name:        "board_guide",
		Title:       "reelboard board guide",
		Description: "How the movie board is organized and how each tool changes it.",
		Content: `# reelboard: Board Guide

## Movies

Every movie has an integer ` + "`id`" + `, a ` + "`name`" + `, a free-form ` + "`review`" + ` and a ` + "`status`" + `.
Ids are unique and never reused while the movie exists. A new movie gets one more than the highest id on the board.

## Columns

- ` + "`watchlist`" + `: movies you plan to see. New movies land here unless a status is given.
- ` + "`watching`" + `: movies in progress.
- ` + "`watched`" + `: finished movies, usually with a review.

Moving a movie changes its column only. Its position in the underlying list stays the same, so columns keep a stable order.

## Search

The search query narrows every view. Matching is a case-insensitive substring test on the name.
A blank query (empty or only spaces) shows everything. The query is kept as typed; it is not trimmed before matching.

## Loading

` + "`load_movies`" + ` fetches the seed list the first time only. Concurrent calls share one fetch.
If the fetch fails, ` + "`get_load_state`" + ` reports ` + "`failed`" + ` with a message and the next ` + "`load_movies`" + ` retries.
Once the board has been saved, later sessions restore it and never fetch the seed again.
A saved movie that is no longer valid is dropped on restore and is gone after the next change.
Its id is retired: new movies never reuse it.

## Errors

- ` + "`INVALID_INPUT`" + `: blank name or malformed arguments. Nothing changed.
- ` + "`INVALID_STATUS`" + `: status outside watchlist, watching, watched. Nothing changed.
- ` + "`LOAD_FAILED`" + `: the seed fetch failed. Retry ` + "`load_movies`" + `.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
