package scan

// Outcome is the terminal state of one file within a run. The strings are
// stored verbatim in run history.
type Outcome string

const (
	// OutcomeVerified means the file satisfies the policy and was cached good.
	OutcomeVerified Outcome = "verified"
	// OutcomeUserSkipped means the file is on the permanent skip list,
	// either from this run or an earlier one.
	OutcomeUserSkipped Outcome = "user-skipped"
	// OutcomeKeptCurrent means the user declined to replace the file this run.
	OutcomeKeptCurrent Outcome = "kept-current"
	// OutcomeSearchTriggered means the file was deleted and an automated
	// search was started.
	OutcomeSearchTriggered Outcome = "search-triggered"
	// OutcomeReleaseDownloaded means the file was deleted and a chosen
	// release was sent to the download client.
	OutcomeReleaseDownloaded Outcome = "release-downloaded"
	// OutcomeNeedsManualSearch means the file was deleted but the follow-up
	// request failed; the operator has to search by hand.
	OutcomeNeedsManualSearch Outcome = "needs-manual-search"

	// Dry-run counterparts of the mutating outcomes.
	OutcomeWouldSearch   Outcome = "would-search"
	OutcomeWouldDownload Outcome = "would-download"
)
