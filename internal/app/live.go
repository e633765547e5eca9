package app

// liveDocument stands in for the collaborative text buffer. Every write
// raises the change notification synchronously, including programmatic
// writes made while scrubbing.
type liveDocument struct {
	content string
	notify  func(next string, remote bool)
}

func newLiveDocument(content string, notify func(next string, remote bool)) *liveDocument {
	return &liveDocument{content: content, notify: notify}
}

func (d *liveDocument) Content() string {
	return d.content
}

func (d *liveDocument) SetContent(content string) {
	d.Apply(content, false)
}

// Apply replaces the body and notifies listeners of the change.
func (d *liveDocument) Apply(content string, remote bool) {
	d.content = content
	if d.notify != nil {
		d.notify(content, remote)
	}
}
