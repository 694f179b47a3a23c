package model

// Activity is a standalone festival event such as a workshop, panel or
// ceremony.  Activities are created and edited by the content management
// side; the schedule engine only reads them.  This struct corresponds to a
// row in the `activities` table.
//
// Fields:
//
//	ID          – primary key identifier.
//	Name        – display name of the activity.
//	Description – optional free text.
//	Tags        – labels used to infer the schedule category.
//	StartTime   – start time of day ("HH:MM", possibly unpadded).
//	EndTime     – end time of day ("HH:MM"); may be earlier than StartTime
//	              when the activity runs past midnight.
//	EventDate   – calendar date ("YYYY-MM-DD").
//	Venue       – raw venue string as entered upstream.
//	Capacity    – number of seats, zero when unlimited or unknown.
//	Registered  – number of registrations so far.
//	Speakers    – speaker names.
//	Organizers  – organizer names.
//	ImageURL    – optional single image, used verbatim.
//	Status      – publication workflow status (draft, published).
//	IsPublic    – whether the activity is visible to the public.
type Activity struct {
	ID          string   // activities.id
	Name        string   // activities.name
	Description string   // activities.description
	Tags        []string // activities.tags (JSON array)
	StartTime   string   // activities.start_time
	EndTime     string   // activities.end_time
	EventDate   string   // activities.event_date
	Venue       string   // activities.venue
	Capacity    int      // activities.capacity
	Registered  int      // activities.registered
	Speakers    []string // activities.speakers (JSON array)
	Organizers  []string // activities.organizers (JSON array)
	ImageURL    string   // activities.image_url
	Status      string   // activities.status
	IsPublic    bool     // activities.is_public
}
