package search

import (
	"fmt"
	"time"

	"opportunity/discovery-service/internal/model"
)

const mockDateLayout = "January 2, 2006"

// MockResults is the built-in dataset served when the provider cannot be
// used. Dates are placed after now so the listings survive the expiry
// filter.
func MockResults(now time.Time) []model.RawSearchHit {
	year := now.Year()
	in := func(days int) string { return now.AddDate(0, 0, days).Format(mockDateLayout) }

	return []model.RawSearchHit{
		{
			Title: fmt.Sprintf("Google AI Hackathon %d - Build with Gemini | Unstop", year),
			Link:  fmt.Sprintf("https://unstop.com/hackathons/google-ai-hackathon-%d", year),
			Snippet: fmt.Sprintf("Google AI Hackathon %d is now open! Build innovative AI solutions using Gemini API. "+
				"Open to all students and developers. Eligibility: 18+ years, any background. Teams of 1-4 members. "+
				"Prizes: ₹10 Lakhs + Google Cloud credits. Deadline: %s.", year, in(30)),
		},
		{
			Title: fmt.Sprintf("Smart India Hackathon %d - Grand Finale | SIH", year),
			Link:  "https://www.sih.gov.in/",
			Snippet: fmt.Sprintf("Smart India Hackathon %d Grand Finale registrations open! Software and Hardware editions. "+
				"Eligibility: Students enrolled in recognized institutions, teams of 6. "+
				"Internal hackathons run through the semester.", year),
		},
		{
			Title: fmt.Sprintf("HackWithInfy %d Season 5 - Infosys | Unstop", year),
			Link:  fmt.Sprintf("https://unstop.com/hackathons/hackwithinfy-%d", year),
			Snippet: fmt.Sprintf("HackWithInfy Season 5 is live! Infosys flagship hackathon for engineering students. "+
				"Eligibility: graduating B.E/B.Tech/M.E/M.Tech/MCA with 60%%+ aggregate. Apply by: %s.", in(21)),
		},
		{
			Title: fmt.Sprintf("Microsoft Imagine Cup %d India Finals | Microsoft", year),
			Link:  "https://imaginecup.microsoft.com/india",
			Snippet: fmt.Sprintf("Microsoft Imagine Cup %d India Round is accepting submissions! Categories: AI for Good, Gaming, Mixed Reality. "+
				"Eligibility: Students 16+, teams up to 4. India regional deadline: %s. "+
				"Winners advance to World Finals with $100K prize.", year, in(45)),
		},
		{
			Title: fmt.Sprintf("Flipkart GRiD 6.0 - Engineering Challenge %d | Flipkart Careers", year),
			Link:  "https://unstop.com/hackathons/flipkart-grid-6",
			Snippet: fmt.Sprintf("Flipkart GRiD 6.0 registrations now open! India's biggest engineering campus challenge. "+
				"Eligibility: B.E/B.Tech students, all branches. Online test on %s. Prizes: ₹5 Lakhs + PPIs.", in(14)),
		},
		{
			Title: fmt.Sprintf("ETHIndia %d - Devfolio | Ethereum Foundation", year),
			Link:  fmt.Sprintf("https://devfolio.co/ethindia%d", year),
			Snippet: fmt.Sprintf("ETHIndia %d applications are open! India's largest Ethereum hackathon. 36-hour in-person event in Bangalore. "+
				"Eligibility: Developers, designers, blockchain enthusiasts 18+. Mentorship from Ethereum Foundation. "+
				"Apply by: %s.", year, in(40)),
		},
		{
			Title: fmt.Sprintf("MLH Season %d India Region - Major League Hacking", year),
			Link:  fmt.Sprintf("https://mlh.io/seasons/%d/events", year),
			Snippet: fmt.Sprintf("Major League Hacking Season %d India events starting! Open to all students. "+
				"Free participation, travel reimbursements available. Build projects in 24-36 hours. "+
				"MLH swag, prizes, and networking. Register on individual event pages.", year),
		},
		{
			Title: "TCS CodeVita Season 12 - Global Coding Contest | TCS",
			Link:  "https://unstop.com/competitions/tcs-codevita-season-12",
			Snippet: fmt.Sprintf("TCS CodeVita Season 12 is live! World's largest coding competition. Pre-Qualifier opens %s. "+
				"Eligibility: Students graduating in the next three years, all branches. Individual participation. "+
				"Cash prizes + job interview opportunities.", in(10)),
		},
	}
}
