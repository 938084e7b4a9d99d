package memory

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"ourhour/internal/domain"
)

var titlesByCategory = map[domain.Category][]string{
	domain.CategoryConferences: {
		"AI & Machine Learning Summit", "Startup Founders Conclave", "Fintech Innovation Conference",
		"Sustainable Tech Summit", "Women in Tech Conference", "Cloud Computing Summit",
		"Cybersecurity Conference", "Data Science Conclave", "Digital Transformation Summit",
		"Healthcare Innovation Summit", "SaaS Growth Summit", "Smart Cities Summit",
	},
	domain.CategoryWorkshops: {
		"UI/UX Design Bootcamp", "Data Science Workshop", "Digital Art Masterclass",
		"Content Writing Workshop", "Public Speaking Training", "Photography Basics",
		"Video Editing Masterclass", "SEO Optimization Training", "Web Development Bootcamp",
		"Python Programming Workshop", "Docker & Kubernetes Workshop", "Ethical Hacking Workshop",
	},
	domain.CategoryCompetitions: {
		"Design Challenge", "Startup Pitch Competition", "Gaming Tournament",
		"Photography Contest", "Dance Battle Championship", "Coding Hackathon",
		"Business Plan Competition", "Quiz Competition", "Robotics Competition",
		"Chess Tournament", "Fintech Hackathon", "Green Innovation Challenge",
	},
	domain.CategoryExhibitions: {
		"Contemporary Art Exhibition", "Tech Innovation Showcase", "Automobile Expo",
		"Food & Culture Festival", "Photography Exhibition", "Craft Fair",
		"Book Fair", "Comic Con", "Travel & Tourism Fair",
		"Startup Showcase", "Electric Vehicle Expo", "Robotics Exhibition",
	},
	domain.CategoryEntertainment: {
		"Stand-up Comedy Night", "Jazz Music Evening", "Cultural Dance Festival",
		"Film Screening Event", "Rock Concert", "Classical Music Concert",
		"Theater Play", "Magic Show", "Open Mic Night",
		"Bollywood Night", "Indie Music Concert", "World Music Festival",
	},
	domain.CategorySeminars: {
		"Career Development Seminar", "Investment & Finance Talk", "Health & Wellness Session",
		"Leadership Masterclass", "Personal Branding Seminar", "Mindfulness & Meditation",
		"Mental Health Awareness", "Sustainability Seminar", "Financial Literacy Seminar",
		"Stock Market Basics", "Cyber Safety Workshop", "Professional Growth Seminar",
	},
	domain.CategoryChildren: {
		"Kids Science Fair", "Children's Art Workshop", "Storytelling Session",
		"Junior Robotics Camp", "Family Fun Day", "Kids Cooking Class",
		"Kids Coding Workshop", "Nature Walk for Kids", "Junior Chess Tournament",
		"Kids Talent Show", "Children's Summer Camp", "Kids Swimming Training",
	},
	domain.CategoryNetworking: {
		"Entrepreneurs Meetup", "Professional Networking Night", "Industry Connect Event",
		"Mentorship Program Launch", "Business Leaders Forum", "Startup Networking",
		"Women in Business Meetup", "Young Professionals Network", "Coffee Chat Meetup",
		"Investor Meetup", "Freelancer Networking", "Alumni Network Event",
	},
}

var seedCities = []string{
	"Mumbai", "Delhi", "Bangalore", "Chennai", "Hyderabad",
	"Pune", "Kolkata", "Ahmedabad", "Jaipur", "Lucknow",
	"Kochi", "Goa", "Chandigarh", "Indore", "Mysore",
}

var seedVenues = []string{
	"Convention Center", "Hotel Grand Ballroom", "Tech Park Auditorium", "Cultural Center",
	"Exhibition Hall", "Community Hall", "Art Gallery", "Rooftop Venue",
	"Coworking Space", "University Campus", "Innovation Hub", "Open Air Theater",
}

var seedStreets = []string{"MG Road", "Brigade Road", "Commercial Street", "Residency Road", "Cunningham Road"}

// categoryImages holds one cover image per category.
var categoryImages = map[domain.Category]string{
	domain.CategoryConferences:   "https://images.pexels.com/photos/2774556/pexels-photo-2774556.jpeg",
	domain.CategoryWorkshops:     "https://images.pexels.com/photos/3184291/pexels-photo-3184291.jpeg",
	domain.CategoryCompetitions:  "https://images.pexels.com/photos/3184465/pexels-photo-3184465.jpeg",
	domain.CategoryExhibitions:   "https://images.pexels.com/photos/1839919/pexels-photo-1839919.jpeg",
	domain.CategoryEntertainment: "https://images.pexels.com/photos/1190298/pexels-photo-1190298.jpeg",
	domain.CategorySeminars:      "https://images.pexels.com/photos/1181396/pexels-photo-1181396.jpeg",
	domain.CategoryChildren:      "https://images.pexels.com/photos/8612990/pexels-photo-8612990.jpeg",
	domain.CategoryNetworking:    "https://images.pexels.com/photos/1181675/pexels-photo-1181675.jpeg",
}

// SeedEvents returns the two hand-written sample events followed by one generated event per
// template title. The same seed and now always yield the same catalog.
func SeedEvents(seed uint64, now time.Time) []domain.Event {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	events := sampleEvents(now)
	nextID := len(events) + 1
	for _, cat := range domain.Categories {
		for _, title := range titlesByCategory[cat] {
			events = append(events, generateEvent(r, strconv.Itoa(nextID), cat, title, now))
			nextID++
		}
	}
	return events
}

func generateEvent(r *rand.Rand, id string, cat domain.Category, title string, now time.Time) domain.Event {
	city := seedCities[r.IntN(len(seedCities))]
	venue := seedVenues[r.IntN(len(seedVenues))]
	capacity := r.IntN(3000) + 100
	booked := r.IntN(capacity * 9 / 10)
	var pricing domain.Pricing
	if r.Float64() > 0.25 {
		pricing = domain.Pricing{Type: domain.PricingPaid, Amount: int64(r.IntN(8000) + 300), Currency: domain.DefaultCurrency}
	} else {
		pricing = domain.Pricing{Type: domain.PricingFree, Currency: domain.DefaultCurrency}
	}
	start := now.Add(time.Duration(r.Int64N(int64(120 * 24 * time.Hour)))).Truncate(time.Minute)
	end := start.Add(time.Duration(r.IntN(12)+2) * time.Hour)
	suffix := "Organizers"
	if r.Float64() > 0.5 {
		suffix = "Events"
	}
	hostName := strings.Fields(title)[0] + " " + suffix
	views := int64(r.IntN(50000) + 1000)
	createdAt := now.Add(-time.Duration(r.Int64N(int64(60 * 24 * time.Hour)))).Truncate(time.Minute)

	return domain.Event{
		ID:          id,
		Title:       title,
		Description: fmt.Sprintf("Join us for an exceptional %s event that brings together industry leaders, experts, and enthusiasts.", strings.TrimSuffix(string(cat), "s")),
		Category:    cat,
		Images:      []string{categoryImages[cat]},
		Host: domain.HostRef{
			ID:       "host" + id,
			Name:     hostName,
			Verified: r.Float64() > 0.4,
		},
		Schedule: domain.Schedule{Start: start, End: end},
		Location: domain.Location{
			Venue:   venue + " " + city,
			Address: fmt.Sprintf("%d %s", r.IntN(999)+1, seedStreets[r.IntN(len(seedStreets))]),
			City:    city,
			Coordinates: domain.Coordinates{
				Lat: 12.9716 + (r.Float64()-0.5)*15,
				Lng: 77.5946 + (r.Float64()-0.5)*15,
			},
		},
		Pricing:   pricing,
		Capacity:  capacity,
		Booked:    booked,
		Tags:      []string{string(cat), "premium", "networking", strings.ToLower(city), "professional"},
		Status:    domain.EventUpcoming,
		Likes:     r.IntN(2000) + 50,
		IsLiked:   r.Float64() > 0.7,
		Featured:  r.Float64() > 0.85,
		Analytics: domain.EventAnalytics{
			Views:    views,
			Bookings: int64(booked),
			Revenue:  int64(booked) * pricing.Amount,
		},
		CreatedAt: createdAt,
		UpdatedAt: now,
	}
}

func sampleEvents(now time.Time) []domain.Event {
	day := now.Truncate(24 * time.Hour)
	summitStart := day.AddDate(0, 0, 30).Add(9 * time.Hour)
	conclaveStart := day.AddDate(0, 0, 14).Add(10 * time.Hour)
	return []domain.Event{
		{
			ID:          "1",
			Title:       "Tech Innovation Summit",
			Description: "The largest technology conference in India featuring AI, blockchain, and emerging technologies.",
			Category:    domain.CategoryConferences,
			Images:      []string{categoryImages[domain.CategoryConferences]},
			Host:        domain.HostRef{ID: "host1", Name: "TechCorp India", Verified: true},
			Schedule:    domain.Schedule{Start: summitStart, End: summitStart.Add(57 * time.Hour)},
			Location: domain.Location{
				Venue:       "Bombay Exhibition Centre",
				Address:     "Goregaon East",
				City:        "Mumbai",
				Coordinates: domain.Coordinates{Lat: 19.0760, Lng: 72.8777},
			},
			Pricing:   domain.Pricing{Type: domain.PricingPaid, Amount: 2500, Currency: domain.DefaultCurrency},
			Capacity:  5000,
			Booked:    4247,
			Tags:      []string{"technology", "AI", "blockchain", "innovation"},
			Status:    domain.EventUpcoming,
			Likes:     1845,
			Featured:  true,
			Analytics: domain.EventAnalytics{Views: 25420, Bookings: 4247, Revenue: 10617500},
			CreatedAt: day.AddDate(0, 0, -45),
			UpdatedAt: day.AddDate(0, 0, -30),
		},
		{
			ID:          "2",
			Title:       "Digital Marketing Conclave",
			Description: "Learn from industry experts about the latest digital marketing trends, social media strategies, and growth hacking techniques.",
			Category:    domain.CategoryConferences,
			Images:      []string{"https://images.pexels.com/photos/3183197/pexels-photo-3183197.jpeg"},
			Host:        domain.HostRef{ID: "host2", Name: "Marketing Gurus", Verified: true},
			Schedule:    domain.Schedule{Start: conclaveStart, End: conclaveStart.Add(7 * time.Hour)},
			Location: domain.Location{
				Venue:       "ITC Grand Central",
				Address:     "Parel",
				City:        "Mumbai",
				Coordinates: domain.Coordinates{Lat: 19.0176, Lng: 72.8311},
			},
			Pricing:   domain.Pricing{Type: domain.PricingPaid, Amount: 1800, Currency: domain.DefaultCurrency},
			Capacity:  800,
			Booked:    723,
			Tags:      []string{"marketing", "digital", "social media", "growth"},
			Status:    domain.EventUpcoming,
			Likes:     656,
			IsLiked:   true,
			Analytics: domain.EventAnalytics{Views: 12920, Bookings: 723, Revenue: 1301400},
			CreatedAt: day.AddDate(0, 0, -40),
			UpdatedAt: day.AddDate(0, 0, -25),
		},
	}
}

// SeedCommunities returns the sample communities.
func SeedCommunities(now time.Time) []domain.Community {
	created := now.Truncate(24*time.Hour).AddDate(0, -6, 0)
	return []domain.Community{
		{
			ID:          "1",
			Name:        "Mumbai Tech Community",
			Description: "Largest tech community in Mumbai for developers, designers, and entrepreneurs.",
			Category:    "Technology",
			Location:    "Mumbai, Maharashtra",
			MemberCount: 5847,
			Members:     []string{"1", "2", "3"},
			Admins:      []string{"1"},
			Events:      []string{"1", "2"},
			Verified:    true,
			CreatedAt:   created,
			UpdatedAt:   created,
		},
		{
			ID:          "2",
			Name:        "Bangalore Startup Hub",
			Description: "Connect with entrepreneurs and startup enthusiasts in Bangalore.",
			Category:    "Business",
			Location:    "Bangalore, Karnataka",
			MemberCount: 4156,
			Members:     []string{"1", "2"},
			Admins:      []string{"2"},
			Events:      []string{"3", "6"},
			Verified:    true,
			CreatedAt:   created,
			UpdatedAt:   created,
		},
		{
			ID:          "3",
			Name:        "Delhi Creative Circle",
			Description: "A vibrant community of artists, designers, and creative professionals in Delhi NCR.",
			Category:    "Arts & Culture",
			Location:    "Delhi, India",
			MemberCount: 2834,
			Members:     []string{"1", "3"},
			Admins:      []string{"3"},
			Events:      []string{"4"},
			CreatedAt:   created,
			UpdatedAt:   created,
		},
	}
}
