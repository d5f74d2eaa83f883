package cms

import "sort"

// fallbackPages are served when the CMS is unconfigured, failing, or has no document for the slug.
var fallbackPages = map[string]Page{
	"home": {
		Slug:        "home",
		Title:       "Precise.ai | Cut CAC with first-party data",
		Description: "Precise connects media buyers with privacy-safe first-party data and an AI co-pilot that keeps acquisition costs falling.",
		Sections: []Section{
			{
				Key:        "hero",
				Type:       "hero",
				Heading:    "Lower CAC. Every campaign.",
				Subheading: "First-party data, DSP optimization and an AI co-pilot in one workspace.",
				CTA:        &CTA{Label: "Start free", Href: "/onboarding"},
			},
			{
				Key:  "stats",
				Type: "stats",
				Items: []Item{
					{Title: "Average CAC reduction", Value: "32%"},
					{Title: "DSPs connected", Value: "12"},
					{Title: "Data partners", Value: "340+"},
				},
			},
			{
				Key:      "how",
				Type:     "richText",
				Heading:  "How it works",
				BodyHTML: "<p>Connect your DSPs and Precise starts scoring every line item against your CAC target.</p><p>When a DSP saturates we tell you where the budget should go next, and the marketplace lets you add audiences that convert.</p>",
			},
		},
	},
	"pricing": {
		Slug:        "pricing",
		Title:       "Pricing",
		Description: "Plans for teams of every size. Pay monthly, cancel any time.",
		Sections: []Section{
			{
				Key:        "plans",
				Type:       "pricingTable",
				Heading:    "Simple pricing",
				Subheading: "Every plan includes the AI co-pilot and unlimited campaigns.",
			},
			{
				Key:      "faq",
				Type:     "richText",
				Heading:  "Questions",
				BodyHTML: "<p><strong>Can I switch plans?</strong> Yes, upgrades apply immediately and downgrades at the end of the billing period.</p><p><strong>Do data purchases count against my plan?</strong> No, marketplace data is billed by the data owner.</p>",
			},
		},
	},
	"data-owners": {
		Slug:  "data-owners",
		Title: "For data owners",
		Sections: []Section{
			{
				Key:        "hero",
				Type:       "hero",
				Heading:    "Turn first-party data into recurring revenue",
				Subheading: "List a dataset once and earn every time a media buyer activates it.",
				CTA:        &CTA{Label: "List your data", Href: "/onboarding?role=data_owner"},
			},
			{
				Key:      "payouts",
				Type:     "richText",
				Heading:  "Transparent payouts",
				BodyHTML: "<p>Earnings accrue per activation and are distributed automatically once they clear. Your dashboard shows every asset, every buyer and every payout.</p>",
			},
		},
	},
	"media-buyers": {
		Slug:  "media-buyers",
		Title: "For media buyers",
		Sections: []Section{
			{
				Key:        "hero",
				Type:       "hero",
				Heading:    "Spend where it converts",
				Subheading: "Live DSP scoring, budget recommendations and audiences that beat your CAC target.",
				CTA:        &CTA{Label: "Connect a DSP", Href: "/onboarding?role=media_buyer"},
			},
			{
				Key:      "copilot",
				Type:     "richText",
				Heading:  "An analyst that never sleeps",
				BodyHTML: "<p>Ask the co-pilot why CAC moved, which DSP is saturating or which segment to test next. Answers use your own campaign numbers.</p>",
			},
		},
	},
	"solution-creators": {
		Slug:  "solution-creators",
		Title: "For solution creators",
		Sections: []Section{
			{
				Key:        "hero",
				Type:       "hero",
				Heading:    "Ship add-ons to thousands of advertisers",
				Subheading: "Publish models, dashboards and connectors to the Precise marketplace.",
				CTA:        &CTA{Label: "Publish a solution", Href: "/onboarding?role=solution_creator"},
			},
		},
	},
	"about": {
		Slug:  "about",
		Title: "About Precise",
		Sections: []Section{
			{
				Key:      "story",
				Type:     "richText",
				Heading:  "Our story",
				BodyHTML: "<p>Precise was founded by performance marketers who were tired of watching acquisition costs climb while third-party signals disappeared.</p><p>We build tools that make first-party data useful, fair to the people who own it and simple for the teams who buy media.</p>",
			},
		},
	},
}

func fallbackPage(slug string) (Page, bool) {
	p, ok := fallbackPages[slug]
	if !ok {
		return Page{}, false
	}
	// copy sections so callers can fill excerpts without touching the literal
	p.Sections = append([]Section(nil), p.Sections...)
	p.Source = SourceFallback
	return p, true
}

// KnownPages lists the slugs that always resolve, sorted.
func KnownPages() []PageRef {
	refs := make([]PageRef, 0, len(fallbackPages))
	for slug, p := range fallbackPages {
		refs = append(refs, PageRef{Slug: slug, Title: p.Title})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Slug < refs[j].Slug })
	return refs
}
