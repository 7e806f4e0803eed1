// Package zenodo deposits release bundles with the Zenodo archive, mapping
// citation metadata onto the deposit API and driving HTTP through curl.
package zenodo
