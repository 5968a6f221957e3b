// Package cnmfrecon reconstructs calcium-imaging movies from CNMF estimates
// and measures how well they explain the raw data.
//
// A CNMF run factors a movie Y (pixels × frames) into spatial footprints A,
// temporal traces C and a low-rank background b·f:
//
//	Y ≈ A·C + b·f + residuals
//
// 🚀 What is in the box?
//
//   - Virtual arrays: the reconstructed (RCM), background (RCB) and residual
//     movies behave like read-only 3-D arrays but compute frames on demand
//   - Eager service: reconstruct or diff any frame range, any component subset
//   - Raw movies: memory-mapped CaImAn memmap files, read frame by frame
//   - Estimates files: compact zstd-compressed documents
//
// Everything is organized under these packages:
//
//	ndarray/      frame stacks, dtypes, frame selectors, masks
//	sparse/       CSC matrix for spatial footprints (gonum compatible)
//	lazy/         Product (RCM, RCB) and Residuals virtual arrays
//	cnmf/         Estimates and the eager Reconstructor
//	memmap/       CaImAn memmap reader and writer
//	store/        estimates persistence
//	config/       TOML manifest, rotating log files
//	cmd/rcmstat   summary statistics from the command line
//
// Pixel order follows CaImAn: pixel p of an (h, w) frame is (p mod h, p div h).
//
// Quick ASCII example, two footprints over a 4×4 field (digits name the component):
//
//	    . 1 1 .
//	    . 1 1 .
//	    . . 2 2
//	    . . 2 2
//
//	frame t is A[:, 1]·C[1, t] on the upper block plus A[:, 2]·C[2, t] on the lower one.
//
//	go get github.com/katalvlaran/cnmfrecon
package cnmfrecon
