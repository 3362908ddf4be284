// Package task owns the per-sample task log of a center-out session and its
// segmentation into trials.
//
// Responsibilities: the SampleTable columns, target code enumeration and its
// dense index, and the two trial segmentation strategies together with their
// boundary-trimming policies.
//
// No plotting, file or database code is allowed in this package.
package task
