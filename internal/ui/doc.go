// Package ui implements the navigation gate and an interactive terminal interface using bubbletea's Elm architecture.
//
// [Gate] shows or hides the navigation controls ([Controls]) depending on whether a session username is present.
// [Menu] is the ordered navigation bar the gate drives, rendered at the top of every TUI view.
//
// The TUI provides a multi-view workflow over the movie catalog:
//  1. [MovieListView] : Browse every movie; enter rates the selected movie
//  2. [MyMoviesView] : Browse the signed-in user's movies; enter deletes the selected movie
//  3. [RateView] : Enter a rating between 1 and 5
//  4. [ResultView] : Show what an action reported
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Rows stream in through a progress channel from the ListEngine as their thumbnails resolve.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, tab, r, L, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
