package dialogue

const (
	promptEventType = `What Heartfulness event are you reporting on?
For example, you can enter Dhyanotsav, AtWork, C-Connect, V-Connect, G-Connect, CME, Youth, Yoga, Temple, Legal, Family, NGO, Brighter Minds, etc.
For general Heartfulness Introductory Events, just enter "Heartfulness".
For School or S-Connect events, enter which program: HELP, INSPIRE, HEART or THWC
For Group Meditations, simply enter "Satsangh" or "Group Meditation"
If you don't know just enter 'Other'.`

	promptEventDay = `Is is day-1, day-2 or day-3 of the event? Please enter "day-1", "day-2", or "day-3". Please note that if it's a multi-day event, you will have to report each day separately.
If it is a one day event just enter "one day event".
For a follow up event, enter "Follow Up"`

	promptEventCount = `How many attended the event? Please enter attendance only for the day you are reporting on. For example, "25" or "2000"`

	promptCoordinatorName = `Thanks for coordinating this event. Please enter your name.`

	promptCoordinatorPhone = `Please enter your phone number.`

	promptEventDate = `When was the event held? ("today", "yesterday", "3 days ago" or just enter a date as dd-mmm-yyyy, example "30-apr-2019")`

	promptInstitution = `Which organization or institution was the event held (e.g., school or company name)?
For V-Connect, please enter the village name.
For group meditations and Satsanghs, please enter the sub-center or location name.`

	promptCity = `Which City/Center was this event held (e.g., Hyderabad, Chennai, etc)?`

	promptCountry = `Which Country was this event held (e.g., India, USA etc)?`

	promptTrainerID = `If available, please enter the preceptor/trainer ID associated with this event. If not, simply enter "skip" or "none".`

	promptFeedback = `Please share your feedback or comments, if any. Or simply enter 'None' to continue.`
)
