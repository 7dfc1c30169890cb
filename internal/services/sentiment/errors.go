package sentiment

import "errors"

// ErrUnavailable signals that scoring could not produce a result for this
// article. Callers skip the article for the cycle; they never substitute a
// default score.
var ErrUnavailable = errors.New("sentiment scoring unavailable")
