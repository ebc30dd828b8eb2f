// Package tracing converts raster logos into vector outlines and back.
//
// The pipeline is Prepare -> Threshold -> Trace -> Simplify, producing a
// Vector whose paths can be recolored, serialized as SVG, or rasterized at
// any size. Layered color tracing quantizes the image first and stacks one
// path per dominant color.
package tracing
