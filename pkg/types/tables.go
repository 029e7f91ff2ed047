package types

// Partition keys. Each entity type owns exactly one key whose value is a
// JSON array of records.
const (
	EventsPartition        = "temple_events"
	ServicesPartition      = "temple_services"
	StaffPartition         = "temple_staff"
	BoardMembersPartition  = "temple_board_members"
	DonorsPartition        = "temple_donors"
	DailyPoojasPartition   = "temple_daily_poojas"
	BajanasPartition       = "temple_bajanas"
	GalleryPartition       = "temple_gallery"
	SubscribersPartition   = "temple_subscribers"
	RegistrationsPartition = "temple_registrations"
	VisitorsPartition      = "temple_visitors"
	AnalyticsPartition     = "temple_analytics"
)

// Auth state keys, stored next to the partitions.
const (
	AuthTokenKey   = "temple_auth_token"
	CurrentUserKey = "temple_current_user"
)

// Table names used by Temple.Table and the CLI.
const (
	EventsTable        = "events"
	ServicesTable      = "services"
	StaffTable         = "staff"
	BoardMembersTable  = "board-members"
	DonorsTable        = "donors"
	DailyPoojasTable   = "daily-poojas"
	BajanasTable       = "bajanas"
	GalleryTable       = "gallery"
	SubscribersTable   = "subscribers"
	RegistrationsTable = "registrations"
	VisitorsTable      = "visitors"
	AnalyticsTable     = "analytics"
)

// StandardTableNames lists all table names in display order.
var StandardTableNames = []string{
	EventsTable,
	ServicesTable,
	StaffTable,
	BoardMembersTable,
	DonorsTable,
	DailyPoojasTable,
	BajanasTable,
	GalleryTable,
	SubscribersTable,
	RegistrationsTable,
	VisitorsTable,
	AnalyticsTable,
}

// TablePartitions maps each table name to its partition key.
var TablePartitions = map[string]string{
	EventsTable:        EventsPartition,
	ServicesTable:      ServicesPartition,
	StaffTable:         StaffPartition,
	BoardMembersTable:  BoardMembersPartition,
	DonorsTable:        DonorsPartition,
	DailyPoojasTable:   DailyPoojasPartition,
	BajanasTable:       BajanasPartition,
	GalleryTable:       GalleryPartition,
	SubscribersTable:   SubscribersPartition,
	RegistrationsTable: RegistrationsPartition,
	VisitorsTable:      VisitorsPartition,
	AnalyticsTable:     AnalyticsPartition,
}
