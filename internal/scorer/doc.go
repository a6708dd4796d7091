// Package scorer ranks search candidates against a scanned ROM: basename
// normalization, a Ratcliff/Obershelp filename similarity ratio, and the
// weighted multi-factor confidence score (filename, region, size, media
// breadth, rating) used to auto-select or prompt on a search result.
package scorer
