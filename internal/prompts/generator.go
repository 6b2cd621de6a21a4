// internal/prompts/generator.go
package prompts

import (
	"fmt"
	"strings"
)

// promptTemplates are the 10 conversational prompt shapes checked for every
// business.
var promptTemplates = [10]string{
	"I need {service} in {location}, who should I hire?",
	"Can you recommend a good {business_type} in {location}?",
	"What are the best {business_types} in {location}?",
	"Looking for someone to {action} in {location}, any suggestions?",
	"I'm planning to {action} in {location}, who are my options?",
	"Who does quality {service} in {location}?",
	"Need recommendations for {service} in {location}",
	"What are my options for {service} in {location}?",
	"Looking for a reliable {business_type} in {location}",
	"Affordable {service} in {location}",
}

// locationVariantIndex assigns a fixed location variant to each template slot
// so the same industry+location always yields the same 10 prompts.
var locationVariantIndex = [10]int{0, 0, 1, 0, 1, 0, 1, 0, 3, 1}

// templateVars is the per-industry, per-country variable set substituted into
// the templates.
type templateVars struct {
	Service       string
	BusinessType  string
	BusinessTypes string
	Action        string
}

type industryVars struct {
	US templateVars
	SG templateVars
}

// industryMapping covers the 8 supported industries. Phrasing differs between
// the United States and Singapore where local usage does (renovate/remodel,
// property agent/real estate agent, aircon/HVAC).
var industryMapping = map[string]industryVars{
	"Home Renovation/Remodeling": {
		US: templateVars{"kitchen renovation", "contractor", "contractors", "remodel my kitchen"},
		SG: templateVars{"kitchen renovation", "contractor", "contractors", "renovate my kitchen"},
	},
	"Photography (Wedding, Event, Portrait)": {
		US: templateVars{"wedding photography", "photographer", "photographers", "find a wedding photographer"},
		SG: templateVars{"wedding photography", "photographer", "photographers", "find a wedding photographer"},
	},
	"Real Estate Agent (US) / Property Agent (SG)": {
		US: templateVars{"real estate", "agent", "agents", "find a real estate agent"},
		SG: templateVars{"property", "agent", "agents", "find a property agent"},
	},
	"Plumbing Services": {
		US: templateVars{"plumbing", "plumber", "plumbers", "fix a plumbing issue"},
		SG: templateVars{"plumbing", "plumber", "plumbers", "fix a plumbing issue"},
	},
	"Consulting (Business, Marketing, IT)": {
		US: templateVars{"business consulting", "consultant", "consultants", "hire a business consultant"},
		SG: templateVars{"business consulting", "consultant", "consultants", "hire a business consultant"},
	},
	"Web Design/Development": {
		US: templateVars{"web design", "web designer", "web designers", "build a website"},
		SG: templateVars{"web design", "web designer", "web designers", "build a website"},
	},
	"HVAC Services (US) / Air Conditioning Services (SG)": {
		US: templateVars{"HVAC", "HVAC contractor", "HVAC contractors", "repair my HVAC system"},
		SG: templateVars{"aircon servicing", "aircon technician", "aircon technicians", "service my air conditioning"},
	},
	"Landscaping/Lawn Care": {
		US: templateVars{"landscaping", "landscaper", "landscapers", "landscape my yard"},
		SG: templateVars{"landscaping", "landscaper", "landscapers", "landscape my garden"},
	},
}

// countryStrategy selects the variable set and location formatting for one
// country. Adding a country means adding a table row, not new branches.
type countryStrategy struct {
	vars      func(industryVars) templateVars
	locations func(location string) []string
}

var countryStrategies = map[string]countryStrategy{
	"United States": {
		vars:      func(iv industryVars) templateVars { return iv.US },
		locations: usLocationVariants,
	},
	"Singapore": {
		vars: func(iv industryVars) templateVars { return iv.SG },
		// Singapore is compact enough that every template uses the literal
		// country name.
		locations: func(string) []string { return []string{"Singapore"} },
	},
}

// defaultStrategy handles countries without a table entry: Singapore phrasing
// with US-style location expansion.
var defaultStrategy = countryStrategy{
	vars:      func(iv industryVars) templateVars { return iv.SG },
	locations: usLocationVariants,
}

// usLocationVariants derives the four location variants for a "City, Region"
// location: bare city, initials-based abbreviation, the original string, and
// "the {city} area". Single-word cities abbreviate to their first two
// characters.
func usLocationVariants(location string) []string {
	parts := strings.Split(location, ",")
	city := strings.TrimSpace(parts[0])
	if city == "" {
		city = location
	}

	cityWords := strings.Fields(city)
	var abbreviation string
	if len(cityWords) > 1 {
		var initials strings.Builder
		for _, word := range cityWords {
			initials.WriteString(word[:1])
		}
		abbreviation = strings.ToUpper(initials.String())
	} else if len(city) >= 2 {
		abbreviation = strings.ToUpper(city[:2])
	} else {
		abbreviation = strings.ToUpper(city)
	}

	return []string{
		city,                             // "Los Angeles"
		abbreviation,                     // "LA"
		location,                         // "Los Angeles, CA"
		fmt.Sprintf("the %s area", city), // "the Los Angeles area"
	}
}

// GeneratePrompts produces the fixed battery of 10 search prompts for a
// business profile. It is pure: the same inputs always yield the same list,
// byte for byte. An unmapped industry returns an empty list, which callers
// must treat as a configuration error.
func GeneratePrompts(industry, country, location string) []string {
	mapping, ok := industryMapping[industry]
	if !ok {
		fmt.Printf("[PromptGenerator] ⚠️ Unknown industry: %s\n", industry)
		return nil
	}

	strategy, ok := countryStrategies[country]
	if !ok {
		strategy = defaultStrategy
	}

	vars := strategy.vars(mapping)
	locationVariants := strategy.locations(location)

	generated := make([]string, 0, len(promptTemplates))
	for i, template := range promptTemplates {
		variant := locationVariants[0]
		if idx := locationVariantIndex[i]; idx < len(locationVariants) {
			variant = locationVariants[idx]
		}

		prompt := template
		prompt = strings.Replace(prompt, "{service}", vars.Service, 1)
		prompt = strings.Replace(prompt, "{business_type}", vars.BusinessType, 1)
		prompt = strings.Replace(prompt, "{business_types}", vars.BusinessTypes, 1)
		prompt = strings.Replace(prompt, "{action}", vars.Action, 1)
		prompt = strings.Replace(prompt, "{location}", variant, 1)
		generated = append(generated, prompt)
	}

	return generated
}

// SupportedIndustries returns the industry names the generator can expand.
func SupportedIndustries() []string {
	industries := make([]string, 0, len(industryMapping))
	for name := range industryMapping {
		industries = append(industries, name)
	}
	return industries
}
