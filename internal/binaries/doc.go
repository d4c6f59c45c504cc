// Package binaries guarantees that the model binary archive a run needs
// is present locally and unpacked into the working binary directory.
//
// An archive is identified by the ial hash. If a matching archive already
// sits under the build tar path it is considered staged; otherwise it is
// fetched from the configured artifact store. A provisioning failure is
// fatal only for the cases that depend on those binaries, never for the
// whole run.
package binaries
