package topics

// Renderer formats topic content for the terminal. ext is the topic file
// extension, including the dot.
type Renderer interface {
	Render(content string, ext string) string
}

type plainRenderer struct{}

func (plainRenderer) Render(content string, _ string) string { return content }
