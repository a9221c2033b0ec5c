package theme

type Typography struct {
	Title      int32
	Header     int32
	Body       int32
	Small      int32
	Toast      int32
	LineFactor float32
}

var Type = Typography{
	Title:      30,
	Header:     22,
	Body:       18,
	Small:      15,
	Toast:      20,
	LineFactor: 1.4,
}
