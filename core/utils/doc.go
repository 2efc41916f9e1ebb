// Package utils provides common utility functions for the recon-manager application.
// It includes helper functions for type conversion and cell formatting that are
// shared by the dataset loaders, the key extractor and the writers.
package utils
