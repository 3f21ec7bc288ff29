package feed

import "math"

// TrendingScore ranks content by engagement with time decay:
//
//	(views + 2*interactions) / (ageHours + 2)^1.5
//
// The +2 in the denominator keeps brand-new content from dividing by near
// zero; the 1.5 exponent makes a day-old piece need roughly an order of
// magnitude more views than a fresh one to hold its rank.
func TrendingScore(views int, ageHours float64, interactions int) float64 {
	if ageHours < 0 {
		ageHours = 0
	}
	base := float64(views + 2*interactions)
	return base / math.Pow(ageHours+2, 1.5)
}

// ViewVelocity is views per hour since publication, used by the
// rising-articles discovery category. Ages under one hour count as one so a
// minute-old article does not get an absurd rate.
func ViewVelocity(views int, ageHours float64) float64 {
	return float64(views) / math.Max(ageHours, 1)
}

// SpaceActivityScore ranks spaces in the trending mix. Members weigh twice
// as much as shared articles.
func SpaceActivityScore(memberCount, articleCount int) float64 {
	return float64(memberCount*10 + articleCount*5)
}
