package shared

import "coffee_finder/internal/domain"

func f64(f float64) *float64 { return &f }

var coffeeCats = []domain.Category{{Alias: "coffee", Title: "Coffee & Tea"}}

// DemoVenues is the Hawaii dataset served when no directory credentials are configured.
// Signature offerings are curated and survive ranking untouched.
func DemoVenues() []domain.Venue {
	return []domain.Venue{
		{
			ID: "honolulu-coffee-company", Name: "Honolulu Coffee Company",
			Address: "1000 Bishop St", City: "Honolulu", State: "HI", ZipCode: "96813",
			Lat: f64(21.3069), Lng: f64(-157.8583),
			Rating: 4.5, ReviewCount: 1240, Price: "$$",
			Categories:        coffeeCats,
			Description:       "Premium coffee with Hawaiian flavors",
			Phone:             "(808) 555-0101",
			Hours:             "7:00 AM - 6:00 PM",
			Website:           "https://honolulucoffee.com",
			SignatureOffering: "Hawaiian Latte",
		},
		{
			ID: "island-vintage-coffee", Name: "Island Vintage Coffee",
			Address: "2301 Kalakaua Ave", City: "Honolulu", State: "HI", ZipCode: "96815",
			Lat: f64(21.2753), Lng: f64(-157.8271),
			Rating: 4.7, ReviewCount: 5120, Price: "$$",
			Categories:        []domain.Category{{Alias: "coffee", Title: "Coffee & Tea"}, {Alias: "breakfast_brunch", Title: "Breakfast & Brunch"}},
			Description:       "Organic coffee with island-inspired drinks",
			Phone:             "(808) 555-0102",
			Hours:             "6:00 AM - 8:00 PM",
			Website:           "https://islandvintagecoffee.com",
			SignatureOffering: "Island Mocha",
		},
		{
			ID: "morning-glass-coffee", Name: "Morning Glass Coffee",
			Address: "2957 E Manoa Rd", City: "Honolulu", State: "HI", ZipCode: "96822",
			Lat: f64(21.2989), Lng: f64(-157.8167),
			Rating: 4.6, ReviewCount: 870, Price: "$",
			Categories:        []domain.Category{{Alias: "coffee", Title: "Coffee & Tea"}, {Alias: "bakeries", Title: "Bakeries"}},
			Description:       "Artisanal coffee in a relaxed atmosphere",
			Phone:             "(808) 555-0103",
			Hours:             "6:30 AM - 5:00 PM",
			Website:           "https://morningglasscoffee.com",
			SignatureOffering: "Manu Manu",
		},
		{
			ID: "kona-coffee-and-tea", Name: "Kona Coffee & Tea",
			Address: "74-5588 Palani Rd", City: "Kailua-Kona", State: "HI", ZipCode: "96740",
			Lat: f64(19.6345), Lng: f64(-155.9889),
			Rating: 4.9, ReviewCount: 640, Price: "$$",
			Categories:        coffeeCats,
			Description:       "Premium Kona coffee experience",
			Phone:             "(808) 555-0109",
			Hours:             "6:00 AM - 6:00 PM",
			Website:           "https://konacoffeeandtea.com",
			SignatureOffering: "Kona Classic",
		},
		{
			ID: "maui-coffee-roasters", Name: "Maui Coffee Roasters",
			Address: "444 Hana Hwy", City: "Kahului", State: "HI", ZipCode: "96732",
			Lat: f64(20.8847), Lng: f64(-156.4543),
			Rating: 4.5, ReviewCount: 980, Price: "$",
			Categories:        []domain.Category{{Alias: "coffeeroasteries", Title: "Coffee Roasteries"}},
			Description:       "Local Maui coffee roaster",
			Phone:             "(808) 555-0111",
			Hours:             "6:00 AM - 6:00 PM",
			Website:           "https://mauicoffeeroasters.com",
			SignatureOffering: "Maui Mokka",
		},
	}
}
