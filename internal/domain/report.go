package domain

// ReportRow is a derived join of booking aggregates and catalog metadata.
// It is never persisted. PackageName and PackageLocation fall back to
// "Unknown" when the catalog no longer resolves the package.
type ReportRow struct {
	PackageID         string  `bson:"package_id" json:"package_id"`
	TotalBookings     int     `bson:"total_bookings" json:"total_bookings"`
	TotalParticipants int     `bson:"total_participants" json:"total_participants"`
	TotalRevenue      float64 `bson:"total_revenue" json:"total_revenue"`
	AvgParticipants   float64 `bson:"avg_participants" json:"avg_participants"`
	PackageName       string  `bson:"-" json:"package_name"`
	PackageLocation   string  `bson:"-" json:"package_location"`
}
