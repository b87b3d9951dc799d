package dto

type OpenInput struct {
	Backend    string
	Device     string
	SampleRate int
	FrameSize  int
}

type OpenOutput struct {
	StreamID string
	Backend  string
}

type FrameOutput struct {
	Samples []byte
}

type DeviceOutput struct {
	ID      string
	Label   string
	Backend string
}

type CheckOutput struct {
	Backend string
	OK      bool
	Details string
}
