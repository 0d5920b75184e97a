package pgraph

// Node is the view of a graph node that a distribution needs: its
// current value, the accumulator its reverse-mode gradient is summed
// into, and the forward-mode first and second derivatives of its value
// with respect to whichever scalar the graph is differentiating.
type Node interface {
	Value() *NodeValue
	BackGrad() *DoubleMatrix
	NeedsGradient() bool
	Grad1() float64
	Grad2() float64
}

// NodeOpt is a functional option for constructing a ValueNode
type NodeOpt func(*ValueNode)

// WithName sets the name of a ValueNode
func WithName(name string) NodeOpt {
	return func(n *ValueNode) {
		n.name = name
	}
}

// WithGrad sets the forward-mode first and second derivatives of a
// ValueNode
func WithGrad(grad1, grad2 float64) NodeOpt {
	return func(n *ValueNode) {
		n.grad1 = grad1
		n.grad2 = grad2
	}
}

// WithoutGradient marks a ValueNode as a constant that receives no
// reverse-mode gradient
func WithoutGradient() NodeOpt {
	return func(n *ValueNode) {
		n.needsGradient = false
	}
}

// ValueNode is a graph node holding a value and its gradient state. It
// is the simplest Node: a parameter, an observation or a sampled
// random variable.
type ValueNode struct {
	name  string
	value NodeValue

	backGrad      *DoubleMatrix
	needsGradient bool
	grad1, grad2  float64
}

// NewValueNode returns a new ValueNode holding value, with a zeroed
// accumulator shaped like value
func NewValueNode(value NodeValue, opts ...NodeOpt) *ValueNode {
	n := &ValueNode{
		value:         value,
		backGrad:      NewGradFor(&value),
		needsGradient: true,
	}

	for _, opt := range opts {
		opt(n)
	}

	if n.name == "" {
		n.name = Unique("node")
	}

	return n
}

// Name returns the name of the node
func (n *ValueNode) Name() string { return n.name }

// Value returns the node's current value
func (n *ValueNode) Value() *NodeValue { return &n.value }

// SetValue replaces the node's value. If the new value has a different
// shape, the accumulator is replaced by a zeroed one of the new shape.
func (n *ValueNode) SetValue(value NodeValue) {
	reshape := value.Type.Variable != n.value.Type.Variable ||
		value.Type.Rows != n.value.Type.Rows ||
		value.Type.Cols != n.value.Type.Cols
	n.value = value

	if reshape {
		n.backGrad = NewGradFor(&n.value)
	}
}

// BackGrad returns the node's reverse-mode gradient accumulator
func (n *ValueNode) BackGrad() *DoubleMatrix { return n.backGrad }

// NeedsGradient returns whether gradients should be accumulated into
// the node
func (n *ValueNode) NeedsGradient() bool { return n.needsGradient }

// Grad1 returns the forward-mode first derivative of the node's value
func (n *ValueNode) Grad1() float64 { return n.grad1 }

// Grad2 returns the forward-mode second derivative of the node's value
func (n *ValueNode) Grad2() float64 { return n.grad2 }

// SetGrad sets the forward-mode derivatives of the node's value
func (n *ValueNode) SetGrad(grad1, grad2 float64) {
	n.grad1 = grad1
	n.grad2 = grad2
}

func (n *ValueNode) String() string {
	return n.name + "=" + n.value.String()
}
