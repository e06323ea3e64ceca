// Package model defines the core data types shared across the pagesect
// library: page-coordinate bounding boxes and positioned text fragments.
//
// All coordinates use a top-down Y axis (Y=0 at the top of the page,
// increasing downward), the convention used by hOCR and most OCR engines.
// Suppliers working in bottom-up coordinate systems (such as raw PDF user
// space) convert before producing fragments.
package model
