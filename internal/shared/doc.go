// Package shared holds code used across packages that belongs to no single
// layer. Today that is the testutil subpackage:
//
//   - BufferedSlogHandler and NewTestLogger capture structured log records
//     for assertions.
//   - WriteCSVFixture, WriteWorkbookFixture and the Survey fixtures create
//     small input datasets in t.TempDir().
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, handler := testutil.NewTestLogger(t)
//	    in := testutil.WriteCSVFixture(t, testutil.SurveyHeader, testutil.SurveyRows)
//	    // run code under test with logger and in
//	    testutil.AssertNoErrors(t, handler)
//	}
package shared
