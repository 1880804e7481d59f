package model

// Category is an event type reported through the conversation.
type Category string

const (
	CategoryGroupMeditation Category = "group-meditation"
	CategoryUConnect        Category = "u-connect"
	CategorySConnect        Category = "s-connect"
	CategorySConnectHelp    Category = "S-Connect-HELP"
	CategorySConnectHeart   Category = "S-Connect-HEART"
	CategorySConnectInspire Category = "S-Connect-INSPIRE"
	CategorySConnectTHWC    Category = "S-Connect-THWC"
	CategoryROCF            Category = "ROCF"
	CategoryFamilyConnect   Category = "Family-Connect"
	CategoryGConnect        Category = "g-connect"
	CategoryDivyaJanani     Category = "Divya-Janani"
	CategoryResearch        Category = "Research"
	CategoryGreen           Category = "Heartfulness-green"
	CategoryVConnect        Category = "v-connect"
	CategoryLConnect        Category = "L-Connect"
	CategoryNGOConnect      Category = "NGO-Connect"
	CategoryYoga            Category = "Yoga"
	CategoryGlowPearl       Category = "glow-pearl"
	CategoryBrighterMinds   Category = "Brighter-Minds"
	CategoryAtWork          Category = "at-work"
	CategoryDhyanotsav      Category = "dhyanotsav"
	CategoryBooksAndMore    Category = "books-and-more"
	CategoryKaushalam       Category = "Kaushalam"
	CategoryIntroduction    Category = "Heartfulness Introduction"
	CategoryYouth           Category = "Youth"
	CategoryOther           Category = "Other"
)

// Profile describes how a category is handled.
type Profile struct {
	// Umbrella is the category stored on the record. Equal to the category
	// itself unless it is a sub-program.
	Umbrella Category
	// SubType is the sub-program code for branched categories.
	SubType string
	// Contact is the address offered to the coordinator after submission.
	Contact string
	// SingleSession categories skip the day-of-event question.
	SingleSession bool
	// Redirect categories are handled outside this conversation.
	Redirect bool
}

const redirectUConnect = "For U-Connect (Heartful Campus) events, please continue with uploading event data with Google forms here: https://bit.ly/hfn-event-summary-submit"

var profiles = map[Category]Profile{
	CategoryGroupMeditation: {SingleSession: true},
	CategoryUConnect:        {Contact: "uconnect@heartfulness.org", Redirect: true},
	CategorySConnect:        {Contact: "sconnect@heartfulness.org"},
	CategorySConnectHelp:    {Umbrella: CategorySConnect, SubType: "HELP", Contact: "sconnect@heartfulness.org"},
	CategorySConnectHeart:   {Umbrella: CategorySConnect, SubType: "HEART", Contact: "sconnect@heartfulness.org"},
	CategorySConnectInspire: {Umbrella: CategorySConnect, SubType: "INSPIRE", Contact: "sconnect@heartfulness.org"},
	CategorySConnectTHWC:    {Umbrella: CategorySConnect, SubType: "THWC", Contact: "sconnect@heartfulness.org"},
	CategoryROCF:            {Contact: "info@rocf.org"},
	CategoryFamilyConnect:   {Contact: "fconnect@heartfulness.org"},
	CategoryGConnect:        {Contact: "gconnect@heartfulness.org"},
	CategoryDivyaJanani:     {Contact: "divyajanani@heartfulness.org"},
	CategoryResearch:        {Contact: "research@heartfulness.org"},
	CategoryGreen:           {Contact: "green@heartfulness.org"},
	CategoryVConnect:        {Contact: "vconnect@heartfulness.org"},
	CategoryLConnect:        {Contact: "lconnect@heartfulness.org"},
	CategoryNGOConnect:      {Contact: "ngoconnect@heartfulness.org"},
	CategoryYoga:            {Contact: "yoga@heartfulness.org"},
	CategoryGlowPearl:       {Contact: "webinars@heartfulness.org"},
	CategoryBrighterMinds:   {Contact: "brighterminds@heartfulness.org"},
	CategoryAtWork:          {Contact: "atwork@heartfulness.org"},
	CategoryDhyanotsav:      {Contact: "dhyanotsav@heartfulness.org"},
	CategoryBooksAndMore:    {Contact: "booksandmore@heartfulness.org"},
	CategoryKaushalam:       {Contact: "kaushalam@heartfulness.org"},
	CategoryIntroduction:    {},
	CategoryYouth:           {},
	CategoryOther:           {},
}

// Profile returns the handling profile of c. Categories without an entry get
// the default profile: stored as-is, no contact, all fields asked.
func (c Category) Profile() Profile {
	p := profiles[c]
	if p.Umbrella == "" {
		p.Umbrella = c
	}
	return p
}

// IsKnown reports whether c has an explicit profile.
func (c Category) IsKnown() bool {
	_, ok := profiles[c]
	return ok
}

// RedirectMessage is the reply for categories handled outside the conversation.
func (c Category) RedirectMessage() string {
	if !c.Profile().Redirect {
		return ""
	}
	return redirectUConnect
}
