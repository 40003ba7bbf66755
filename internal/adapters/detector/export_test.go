package detector

var (
	IsCI   = isCI
	IsDyno = isDyno
)
