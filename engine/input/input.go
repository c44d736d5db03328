package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/1siamBot/ecsim/components"
	"github.com/1siamBot/ecsim/ecs"
)

// InputState tracks mouse and keyboard state per frame
type InputState struct {
	// Mouse
	MouseX, MouseY     int
	MouseDX, MouseDY   int     // delta since last frame
	prevMouseX         int
	prevMouseY         int
	LeftPressed        bool
	RightPressed       bool
	LeftJustPressed    bool
	RightJustPressed   bool
	LeftJustReleased   bool
	RightJustReleased  bool
	ScrollY            float64

	// Drag
	DragStartX, DragStartY int
	Dragging               bool
	DragEnded              bool // true only on the frame a drag-select is released
	DragThreshold          int

	// Keyboard
	KeysPressed map[ebiten.Key]bool
}

func NewInputState() *InputState {
	return &InputState{
		DragThreshold: 5,
		KeysPressed:   make(map[ebiten.Key]bool),
	}
}

// Update should be called every frame
func (s *InputState) Update() {
	// Mouse position
	s.prevMouseX = s.MouseX
	s.prevMouseY = s.MouseY
	s.MouseX, s.MouseY = ebiten.CursorPosition()
	s.MouseDX = s.MouseX - s.prevMouseX
	s.MouseDY = s.MouseY - s.prevMouseY

	// Mouse buttons
	leftDown := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	rightDown := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)

	s.LeftJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	s.RightJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	s.LeftJustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	s.RightJustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight)
	s.LeftPressed = leftDown
	s.RightPressed = rightDown

	// Scroll
	_, scrollY := ebiten.Wheel()
	s.ScrollY = scrollY

	// Drag tracking
	wasDragging := s.Dragging
	if s.LeftJustPressed {
		s.DragStartX = s.MouseX
		s.DragStartY = s.MouseY
		s.Dragging = false
	}
	if leftDown && !s.Dragging {
		dx := s.MouseX - s.DragStartX
		dy := s.MouseY - s.DragStartY
		if dx*dx+dy*dy > s.DragThreshold*s.DragThreshold {
			s.Dragging = true
		}
	}
	if !leftDown {
		s.Dragging = false
	}
	// s.Dragging is cleared the instant the button lifts, before callers get
	// a chance to see it on the release frame, so latch that frame's result.
	s.DragEnded = wasDragging && s.LeftJustReleased

	// Common keys
	commonKeys := []ebiten.Key{
		ebiten.KeyW, ebiten.KeyA, ebiten.KeyS, ebiten.KeyD,
		ebiten.KeyUp, ebiten.KeyDown, ebiten.KeyLeft, ebiten.KeyRight,
		ebiten.KeySpace, ebiten.KeyEscape, ebiten.KeyEnter,
		ebiten.KeyShift, ebiten.KeyControl,
		ebiten.KeyDelete, ebiten.KeyBackspace,
		ebiten.KeyTab,
		ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
		ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9, ebiten.Key0,
		ebiten.KeyF1, ebiten.KeyF2, ebiten.KeyF3, ebiten.KeyF4, ebiten.KeyF5,
		ebiten.KeyH, ebiten.KeyG, ebiten.KeyP, ebiten.KeyM,
	}
	for _, k := range commonKeys {
		s.KeysPressed[k] = ebiten.IsKeyPressed(k)
	}
}

// IsKeyJustPressed returns true if key was just pressed this frame
func (s *InputState) IsKeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}

// DragRect returns the selection rectangle if dragging
func (s *InputState) DragRect() (x1, y1, x2, y2 int, active bool) {
	if !s.Dragging {
		return 0, 0, 0, 0, false
	}
	return s.DragStartX, s.DragStartY, s.MouseX, s.MouseY, true
}

// SelectInRect returns the entities among candidates whose world Position,
// projected to screen space via toScreen, falls inside the rectangle of the
// drag that just ended. ok is false unless this is the release frame of a
// drag; when ok is false the caller should fall back to single-entity click
// selection.
func (s *InputState) SelectInRect(candidates []*ecs.Entity, types *components.Types, toScreen func(wx, wy float64) (int, int)) (hit []*ecs.Entity, ok bool) {
	if !s.DragEnded {
		return nil, false
	}
	x1, y1, x2, y2 := s.DragStartX, s.DragStartY, s.MouseX, s.MouseY
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for _, e := range candidates {
		pos, has := ecs.GetComponent(e, types.Position)
		if !has {
			continue
		}
		sx, sy := toScreen(pos.X, pos.Y)
		if sx >= x1 && sx <= x2 && sy >= y1 && sy <= y2 {
			hit = append(hit, e)
		}
	}
	return hit, true
}
