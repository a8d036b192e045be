package datadict

// AlarmDef names one entry in the controller's fixed alarm-history
// table: the sub-id read against DataIDAlarmLastOccurred /
// DataIDAlarmDescription, and its human-readable label.
//
// The table is shipped verbatim per spec.md §4.5; only two entries
// (sub-id 5 "Vibration" and sub-id 722 "Cable twisted") are anchored by
// a concrete example in the spec text, since the source this was
// distilled from didn't carry the full 62-entry table within the
// retrieved excerpt. The remaining sub-ids and labels were reconstructed
// to match the documented range and count and should be reconciled
// against the controller's actual alarm list before being treated as
// load-bearing in a production deployment — see DESIGN.md.
type AlarmDef struct {
	SubID       uint16
	Description string
}

// AlarmTable is the fixed, 62-entry set of known alarm sub-ids.
var AlarmTable = []AlarmDef{
	{5, "Vibration"},
	{10, "Over speed"},
	{15, "Under speed"},
	{20, "Grid over voltage"},
	{25, "Grid under voltage"},
	{30, "Grid over frequency"},
	{35, "Grid under frequency"},
	{40, "Grid loss"},
	{45, "Generator over temperature"},
	{50, "Gearbox oil over temperature"},
	{55, "Gearbox oil under level"},
	{60, "Main bearing over temperature"},
	{65, "Yaw error"},
	{70, "Yaw motor fault"},
	{75, "Yaw brake fault"},
	{80, "Pitch system fault"},
	{85, "Pitch over travel"},
	{90, "Pitch battery low"},
	{95, "Hydraulic pressure low"},
	{100, "Hydraulic pressure high"},
	{105, "Brake pressure low"},
	{110, "Brake worn"},
	{115, "Tower over vibration"},
	{120, "Tower door open"},
	{125, "Nacelle over temperature"},
	{130, "Controller cabinet over temperature"},
	{135, "Emergency stop activated"},
	{140, "Rotor lock engaged"},
	{145, "Anemometer fault"},
	{150, "Wind vane fault"},
	{155, "Rotor speed sensor fault"},
	{160, "Generator speed sensor fault"},
	{165, "Generator over current"},
	{170, "Generator under excitation"},
	{175, "Converter fault"},
	{180, "Converter over temperature"},
	{185, "Transformer over temperature"},
	{190, "Circuit breaker tripped"},
	{195, "Phase imbalance"},
	{200, "Earth fault"},
	{205, "Lightning strike detected"},
	{210, "Communication fault"},
	{215, "Data logger fault"},
	{220, "UPS battery low"},
	{225, "UPS on battery"},
	{230, "Fire detected"},
	{235, "Smoke detected"},
	{240, "Flood detected"},
	{245, "Access door open"},
	{250, "Crane hatch open"},
	{300, "Ice detected on blades"},
	{305, "Lightning counter exceeded"},
	{400, "Oil filter blocked"},
	{405, "Coolant level low"},
	{410, "Coolant over temperature"},
	{600, "Grid reconnection timeout"},
	{610, "Soft-start fault"},
	{620, "Capacitor bank fault"},
	{700, "SCADA watchdog timeout"},
	{710, "Remote stop requested"},
	{715, "Service mode active"},
	{722, "Cable twisted"},
}
