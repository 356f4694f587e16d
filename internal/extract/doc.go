// package extract assembles the six named output datasets from raw API
// responses: entity mapping with fail-closed required fields, bulk
// batch windows, the playlist walk with owner deduplication, and the
// fixed-order pipeline that ties them together.
package extract
