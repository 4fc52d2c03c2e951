package reddit

// 页面结构相关的脚本集中在这里。Reddit 改版时只需要改这个文件。
//
// 结构：shreddit-feed 的 shadowRoot 第 3 个子元素是一个 slot，帖子（article）
// 被分配到这个 slot 中。首屏的 article 直接挂在 slot 下；滚动加载后新的
// article 出现在 faceplate-batch 容器里。

const (
	tagArticle        = "article"
	tagFaceplateBatch = "faceplate-batch"
)

// feedRootReadyJS 信息流根节点是否存在
const feedRootReadyJS = `() => {
	const feed = document.querySelector("shreddit-feed");
	return !!(feed && feed.shadowRoot && feed.shadowRoot.children[2]);
}`

// assignedElementsJS 返回分配到信息流 slot 的所有元素
const assignedElementsJS = `() => {
	const slot = document.querySelector("shreddit-feed").shadowRoot.children[2];
	return Array.from(slot.assignedElements({ flatten: true }));
}`

const tagNameJS = `function () { return this.tagName.toLowerCase(); }`

// permalinkJS 读取 article 内 shreddit-post 的链接，用于日志中标识帖子
const permalinkJS = `function () {
	const post = this.querySelector("shreddit-post");
	if (!post) return "";
	return post.getAttribute("permalink") || post.id || "";
}`

// resolveSaveItemJS 从 article 一路穿过各层 shadowRoot 找到溢出菜单中的"保存"项，
// 任何一层缺失都返回 null
const resolveSaveItemJS = `
const firstAssigned = (slot) => slot ? slot.assignedElements({ flatten: true })[0] : null;
const resolveSaveItem = (article) => {
	const post = article.querySelector("shreddit-post");
	if (!post || !post.shadowRoot) return null;

	const creditBar = firstAssigned(post.shadowRoot.querySelector('slot[name="credit-bar"]'));
	if (!creditBar) return null;

	const span = creditBar.querySelector("span.flex.items-center.pl-xs");
	const menuHost = span && span.querySelector("shreddit-post-overflow-menu");
	if (!menuHost || !menuHost.shadowRoot) return null;

	const overflowButton = menuHost.shadowRoot.children[0];
	const dropdown = overflowButton && overflowButton.querySelector("rpl-dropdown");
	if (!dropdown || !dropdown.shadowRoot) return null;

	const popper = dropdown.shadowRoot.querySelector("rpl-popper");
	if (!popper || !popper.shadowRoot) return null;

	const activePopup = popper.shadowRoot.querySelector("div.popup.popup--active, div.popup");
	const content = activePopup && firstAssigned(activePopup.querySelector("slot"));
	if (!content) return null;

	const hoverCard = firstAssigned(content.querySelector("slot"));
	if (!hoverCard) return null;

	return hoverCard.querySelector("li[id='post-overflow-save']");
};
const saveMenuItem = (li) => li ? li.querySelector("div[role='menuitem']") : null;
const saveLabel = (li) => {
	const item = saveMenuItem(li);
	const text = item && item.querySelector(
		"span.flex.items-center.gap-xs.min-w-0.shrink span.flex.flex-col.justify-center.min-w-0.shrink span.text-14");
	return text ? text.textContent.trim() : null;
};
`

// savedLabelJS 返回按钮文字，找不到时返回 null
const savedLabelJS = `function () {` + resolveSaveItemJS + `
	try {
		return saveLabel(resolveSaveItem(this));
	} catch (e) {
		return null;
	}
}`

// toggleJS 点击"保存/取消保存"菜单项，找不到返回 false
const toggleJS = `function () {` + resolveSaveItemJS + `
	const item = saveMenuItem(resolveSaveItem(this));
	if (!item) return false;
	item.click();
	return true;
}`

// labelChangedJS 按钮文字已不再是 savedLabel，忽略首尾空白和大小写
const labelChangedJS = `function (savedLabel) {` + resolveSaveItemJS + `
	try {
		const label = saveLabel(resolveSaveItem(this));
		return label !== null && label.trim().toLowerCase() !== savedLabel.trim().toLowerCase();
	} catch (e) {
		return false;
	}
}`

const extentJS = `() => document.body.scrollHeight`

const scrollToBottomJS = `() => window.scrollTo({ top: document.body.scrollHeight, behavior: "smooth" })`
