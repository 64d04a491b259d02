// Package overlay encodes caption styling and builds the video filter-graph
// expression that burns subtitles and a watermark into a render.
//
// Colors are packed into the alpha+blue+green+red hex form the caption
// renderer's style language expects, and all user-supplied text is escaped
// before interpolation into the filter string.
package overlay
