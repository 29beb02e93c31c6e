package rooms

// SeedRooms is the bundled starter inventory: a few listings per destination
// city, nightly prices in KRW.
func SeedRooms() []Room {
	return []Room{
		{ID: "fuk-001", Title: "Hakata Station studio", Description: "Compact studio two minutes from Hakata station, great ramen nearby", Price: 62000, City: "Fukuoka-City", Country: "Japan", Category: "studio", Active: true},
		{ID: "fuk-002", Title: "Tenjin canal-view apartment", Description: "Bright one-bedroom overlooking the canal in Tenjin", Price: 88000, City: "Fukuoka-City", Country: "Japan", Category: "apartment", Active: true},
		{ID: "fuk-003", Title: "Ohori Park guesthouse room", Description: "Quiet private room near Ohori Park, shared kitchen", Price: 45000, City: "Fukuoka-City", Country: "Japan", Category: "guesthouse", Active: true},

		{ID: "hij-001", Title: "Peace Park riverside flat", Description: "One-bedroom flat along the Motoyasu river, walkable to the Peace Memorial", Price: 71000, City: "Hiroshima", Country: "Japan", Category: "apartment", Active: true},
		{ID: "hij-002", Title: "Hondori arcade loft", Description: "Loft above the Hondori shopping arcade, tram stop at the door", Price: 59000, City: "Hiroshima", Country: "Japan", Category: "loft", Active: true},

		{ID: "kyo-001", Title: "Gion machiya townhouse", Description: "Restored wooden townhouse in Gion with a small garden", Price: 145000, City: "Kyoto", Country: "Japan", Category: "townhouse", Active: true},
		{ID: "kyo-002", Title: "Kamo river tatami room", Description: "Traditional tatami room facing the Kamo river", Price: 78000, City: "Kyoto", Country: "Japan", Category: "ryokan", Active: true},
		{ID: "kyo-003", Title: "Kyoto station capsule", Description: "Modern capsule near Kyoto station, solo travelers", Price: 42000, City: "Kyoto", Country: "Japan", Category: "capsule", Active: true},

		{ID: "osa-001", Title: "Dotonbori neon studio", Description: "Studio in the middle of Dotonbori, street food at the doorstep", Price: 67000, City: "Osaka", Country: "Japan", Category: "studio", Active: true},
		{ID: "osa-002", Title: "Umeda sky apartment", Description: "High-floor apartment near Umeda with skyline views", Price: 96000, City: "Osaka", Country: "Japan", Category: "apartment", Active: true},
		{ID: "osa-003", Title: "Namba backpacker bunk", Description: "Bunk in a friendly Namba hostel, rooftop lounge", Price: 38000, City: "Osaka", Country: "Japan", Category: "hostel", Active: true},

		{ID: "tyo-001", Title: "Shinjuku micro-apartment", Description: "Tiny but efficient apartment steps from Shinjuku station", Price: 84000, City: "Tokyo", Country: "Japan", Category: "apartment", Active: true},
		{ID: "tyo-002", Title: "Asakusa temple-view room", Description: "Private room with a view of Senso-ji, family-run", Price: 69000, City: "Tokyo", Country: "Japan", Category: "guesthouse", Active: true},
		{ID: "tyo-003", Title: "Shibuya designer loft", Description: "Designer loft near Shibuya crossing", Price: 132000, City: "Tokyo", Country: "Japan", Category: "loft", Active: true},

		{ID: "bkn-001", Title: "Williamsburg brownstone room", Description: "Room in a classic Williamsburg brownstone, cafes everywhere", Price: 158000, City: "Brooklyn", Country: "United States", Category: "private room", Active: true},
		{ID: "bkn-002", Title: "Bushwick artist loft", Description: "Shared artist loft in Bushwick with studio space", Price: 112000, City: "Brooklyn", Country: "United States", Category: "loft", Active: true},

		{ID: "man-001", Title: "East Village walk-up", Description: "Fourth-floor walk-up studio in the East Village", Price: 189000, City: "Manhattan", Country: "United States", Category: "studio", Active: true},
		{ID: "man-002", Title: "Harlem jazz apartment", Description: "One-bedroom near the Apollo, jazz bars on the block", Price: 139000, City: "Manhattan", Country: "United States", Category: "apartment", Active: true},

		{ID: "qns-001", Title: "Astoria family flat", Description: "Two-bedroom family flat in Astoria, N train nearby", Price: 121000, City: "Queens", Country: "United States", Category: "apartment", Active: true},
		{ID: "qns-002", Title: "Flushing garden room", Description: "Garden-level room in Flushing, best dumplings in town", Price: 87000, City: "Queens", Country: "United States", Category: "private room", Active: true},
	}
}
