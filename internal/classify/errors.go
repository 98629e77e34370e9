package classify

import "errors"

var errEmptyRanking = errors.New("classifier returned no labels")
