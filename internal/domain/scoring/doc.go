// Package scoring converts raw pitching and hitting lines into points.
//
// Both converters are pure functions of the record they are given. They never
// fail: unreadable numbers count as zero for the term they feed.
package scoring
