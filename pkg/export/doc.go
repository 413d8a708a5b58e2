// Package export defines the types shared by the export-side gate: the
// export request and result shapes, the clearance lattice used to match
// buyer clearance against data classification, and the authorized-buyer
// registry.
//
// Export decisions use their own vocabulary (approved, pending_review,
// rejected, quarantined), distinct from action-time governance decisions.
// The two gate different irreversible actions, reward versus data release,
// and are deliberately not unified.
package export
