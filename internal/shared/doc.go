// Package shared holds helpers used across packages that belong to no
// single layer.
//
// The testutil subpackage provides:
//
//   - a buffered slog handler for asserting on log output
//   - price file fixtures and multipart upload builders for handler and
//     service tests
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    svc := services.NewAnalysisService(cfg, paths, nil, logger)
//	    ...
//	    assert.True(t, logs.ContainsMessage("analysis completed"))
//	}
package shared
