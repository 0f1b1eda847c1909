// Package catalog holds the static reference data the simulator draws from:
// hosting providers with their pricing, client platforms with selection
// weights, server locations, VPN protocols and hardware enumerations.
// All slices are read-only; callers must not mutate them.
package catalog

// Provider is a hosting provider definition with realistic pricing.
type Provider struct {
	Name                 string
	CostPerServerMonthly float64
	CostPerGBTransfer    float64
}

// Platform is a client platform definition. Weight is the relative share of
// sessions originating from the platform.
type Platform struct {
	Name        string
	DisplayName string
	IsMobile    bool
	Weight      float64
}

// Location is a city/country pair a server can be placed in.
type Location struct {
	City    string
	Country string
}

var Providers = []Provider{
	{Name: "AWS", CostPerServerMonthly: 180.0, CostPerGBTransfer: 0.09},
	{Name: "Google Cloud", CostPerServerMonthly: 165.0, CostPerGBTransfer: 0.08},
	{Name: "Azure", CostPerServerMonthly: 175.0, CostPerGBTransfer: 0.087},
	{Name: "DigitalOcean", CostPerServerMonthly: 120.0, CostPerGBTransfer: 0.01},
	{Name: "Vultr", CostPerServerMonthly: 110.0, CostPerGBTransfer: 0.01},
}

var Platforms = []Platform{
	{Name: "windows", DisplayName: "Windows", IsMobile: false, Weight: 0.25},
	{Name: "ios", DisplayName: "iOS", IsMobile: true, Weight: 0.20},
	{Name: "android", DisplayName: "Android", IsMobile: true, Weight: 0.25},
	{Name: "macos", DisplayName: "macOS", IsMobile: false, Weight: 0.15},
	{Name: "linux", DisplayName: "Linux", IsMobile: false, Weight: 0.08},
	{Name: "browser_extension", DisplayName: "Browser Extension", IsMobile: false, Weight: 0.05},
	{Name: "amazon_firestick", DisplayName: "Amazon FireStick", IsMobile: false, Weight: 0.02},
}

var Locations = []Location{
	{City: "London", Country: "United Kingdom"},
	{City: "Manchester", Country: "United Kingdom"},
	{City: "New York", Country: "United States"},
	{City: "Los Angeles", Country: "United States"},
	{City: "Chicago", Country: "United States"},
	{City: "Toronto", Country: "Canada"},
	{City: "Vancouver", Country: "Canada"},
	{City: "Frankfurt", Country: "Germany"},
	{City: "Berlin", Country: "Germany"},
	{City: "Paris", Country: "France"},
	{City: "Amsterdam", Country: "Netherlands"},
	{City: "Singapore", Country: "Singapore"},
	{City: "Tokyo", Country: "Japan"},
	{City: "Sydney", Country: "Australia"},
	{City: "Mumbai", Country: "India"},
	{City: "Bangalore", Country: "India"},
	{City: "Sao Paulo", Country: "Brazil"},
	{City: "Stockholm", Country: "Sweden"},
	{City: "Warsaw", Country: "Poland"},
	{City: "Madrid", Country: "Spain"},
}

// UserCountries is where users connect from, independent of server placement.
var UserCountries = []string{
	"United States", "United Kingdom", "Germany", "France", "Canada",
	"Australia", "India", "Brazil", "Japan", "Spain", "Italy",
	"Netherlands", "Sweden", "Poland", "Mexico", "South Korea",
	"Singapore", "Turkey", "Indonesia", "Thailand",
}

var Protocols = []string{"WireGuard", "OpenVPN", "IKEv2", "NordLynx"}

var CPUModels = []string{
	"Intel Xeon E5-2680 v4", "Intel Xeon Gold 6248", "AMD EPYC 7542",
	"Intel Xeon Platinum 8275CL", "AMD EPYC 7763",
}

// Hardware choices are from small discrete sets, not continuous ranges.
var (
	CPUCoreOptions = []int{8, 16, 32, 64}
	RAMGBOptions   = []int{32, 64, 128, 256}
)

var iosDevices = []string{"iPhone 13", "iPhone 14", "iPhone 15", "iPad Pro"}

var androidDevices = []string{"SM-G998B", "Pixel 7", "OnePlus 11", "Xiaomi 13"}

// DeviceModels returns the device pool for a mobile platform name, or nil for
// platforms that don't report a device model.
func DeviceModels(platform string) []string {
	switch platform {
	case "ios":
		return iosDevices
	case "android":
		return androidDevices
	default:
		return nil
	}
}
