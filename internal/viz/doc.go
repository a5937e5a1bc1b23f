// Package viz renders simulated reactor instances for the terminal.
//
//   - [ConcentrationChart], [TemperatureChart], [ComponentChart] and
//     [YieldChart] draw asciigraph line charts along the reactor length
//   - [SummaryPanel] shows the key figures of one scenario as a lipgloss panel
//   - [Markdown] and [RenderMarkdown] build and style a full report
//   - [Viewer] is a bubbletea program for browsing all components
//
// Charts are scaled to the data unless a fixed axis is given in
// [ChartOptions]; comparison views pass the union of the scenario ranges so
// both share one scale.
package viz
